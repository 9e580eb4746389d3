package ops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the document read by `crediyactl seed`. Records reference each
// other by natural key: stores by code, customers by CURP.
type SeedFile struct {
	Stores    []SeedStore    `yaml:"stores"`
	Users     []SeedUser     `yaml:"users"`
	Customers []SeedCustomer `yaml:"customers"`
	Loans     []SeedLoan     `yaml:"loans"`
	Inventory []SeedItem     `yaml:"inventory"`
}

type SeedStore struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Role     string `yaml:"role"`
	Store    string `yaml:"store"`
}

type SeedCustomer struct {
	FirstName     string `yaml:"first_name"`
	LastName      string `yaml:"last_name"`
	CURP          string `yaml:"curp"`
	Phone         string `yaml:"phone"`
	Email         string `yaml:"email"`
	Address       string `yaml:"address"`
	Occupation    string `yaml:"occupation"`
	Employer      string `yaml:"employer"`
	MonthlyIncome string `yaml:"monthly_income"`
	Store         string `yaml:"store"`
}

type SeedLoan struct {
	CURP         string `yaml:"curp"`
	Amount       string `yaml:"amount"`
	InterestRate string `yaml:"interest_rate"`
	TermWeeks    int    `yaml:"term_weeks"`
}

type SeedItem struct {
	SKU      string `yaml:"sku"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Quantity int    `yaml:"quantity"`
	UnitCost string `yaml:"unit_cost"`
	Store    string `yaml:"store"`
}

// DefaultStores are recreated by Reset.
var DefaultStores = []SeedStore{
	{Code: "MATRIZ", Name: "Sucursal Matriz"},
}

func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(raw)
}

// ParseSeed rejects unknown keys so typos do not silently drop data.
func ParseSeed(raw []byte) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &f, nil
}
