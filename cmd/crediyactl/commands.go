package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"crediya/internal/adapter/repository/postgres"
	"crediya/internal/usecase/admin"
	"crediya/internal/usecase/collection"
	"crediya/internal/usecase/ops"
	"crediya/pkg/password"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

var (
	seedFile  string
	keepUsers bool
	confirmed bool

	newUser struct {
		username string
		password string
		fullName string
		role     string
		store    string
	}
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load stores, users, customers, loans and inventory from a YAML file",
	Long: `Load reference and demo data from a YAML file.

Records are matched by natural key (store code, username, CURP, SKU) and
existing ones are left untouched, so the command can be re-run safely. The
whole file is applied in a single transaction.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all business data and reseed the reference stores",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <plain>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a back-office user",
	Args:  cobra.NoArgs,
	RunE:  runCreateUser,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark overdue installments and apply penalties once",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "seed file")

	resetCmd.Flags().BoolVar(&keepUsers, "keep-users", false, "keep users and stores")
	resetCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the reset")

	f := createUserCmd.Flags()
	f.StringVar(&newUser.username, "username", "", "login name")
	f.StringVar(&newUser.password, "password", "", "plain password")
	f.StringVar(&newUser.fullName, "full-name", "", "display name")
	f.StringVar(&newUser.role, "role", "staff", "admin or staff")
	f.StringVar(&newUser.store, "store", "", "store code")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")
}

func opsUsecase() (*ops.Usecase, error) {
	gdb, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return ops.NewUsecase(postgres.NewGormUoW(gdb), postgres.NewMaintenance(gdb), log), nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	uc, err := opsUsecase()
	if err != nil {
		return err
	}
	if err := uc.Migrate(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrated")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := ops.LoadSeedFile(seedFile)
	if err != nil {
		return err
	}
	uc, err := opsUsecase()
	if err != nil {
		return err
	}
	res, err := uc.Seed(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printYAML(cmd, res)
}

func runReset(cmd *cobra.Command, args []string) error {
	if !confirmed {
		return errors.New("reset deletes business data; pass --yes to confirm")
	}
	uc, err := opsUsecase()
	if err != nil {
		return err
	}
	deleted, err := uc.Reset(cmd.Context(), keepUsers)
	if err != nil {
		return err
	}
	return printYAML(cmd, map[string]any{"deleted": deleted, "kept_users": keepUsers})
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	h, err := password.Hash(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), h)
	return nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	gdb, err := openDB(cfg)
	if err != nil {
		return err
	}
	repos := postgres.NewRepos(gdb)

	in := admin.CreateUserInput{
		Username: newUser.username,
		Password: newUser.password,
		FullName: newUser.fullName,
		Role:     newUser.role,
	}
	if newUser.store != "" {
		st, err := repos.Stores.GetByCode(cmd.Context(), strings.ToUpper(strings.TrimSpace(newUser.store)))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ops.ErrUnknownStore, newUser.store)
		}
		if err != nil {
			return err
		}
		in.StoreID = st.StoreID
	}

	u, err := admin.NewUsecase(repos.Users, repos.Stores).CreateUser(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) %s\n", u.Username, u.Role, u.UserID)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	gdb, err := openDB(cfg)
	if err != nil {
		return err
	}
	uc := collection.NewUsecase(postgres.NewRepos(gdb).Installments, postgres.NewGormUoW(gdb), collection.Policy{
		Penalty:   cfg.Penalty(),
		GraceDays: cfg.GraceDays,
	}, log)
	res, err := uc.SweepOverdue(cmd.Context(), time.Now().UTC())
	if err != nil {
		return err
	}
	return printYAML(cmd, map[string]any{
		"installments_marked": res.InstallmentsMarked,
		"loans_marked":        res.LoansMarked,
		"penalties_total":     res.PenaltiesTotal.StringFixed(2),
	})
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
