package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessathi/internal/config"
	"businessathi/internal/domain"
	"businessathi/internal/service"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExport_DemoInvoicesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.csv")

	out, err := execute(t, "export", "invoices", "--demo", "--format", "csv", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 rows")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Acme Traders")
}

func TestExport_DemoLocalCustomersXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.xlsx")

	out, err := execute(t, "export", "customers", "--demo", "--type", "local", "--format", "xlsx", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 rows")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExport_InvalidFormat(t *testing.T) {
	_, err := execute(t, "export", "products", "--demo", "--format", "pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestExport_UnknownEntity(t *testing.T) {
	_, err := execute(t, "export", "suppliers", "--demo")
	assert.Error(t, err)
}

func TestExport_InvalidType(t *testing.T) {
	_, err := execute(t, "export", "invoices", "--demo", "--type", "vat")
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)
}

func TestStats_DemoWithLookups(t *testing.T) {
	out, err := execute(t, "stats", "--demo", "--lookups")
	require.NoError(t, err)

	var body struct {
		Statistics domain.InvoiceStatistics `json:"statistics"`
		Months     []string                 `json:"months"`
		Customers  []domain.CustomerOption  `json:"customers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 3, body.Statistics.TotalInvoices)
	assert.Len(t, body.Months, 2)
	assert.Len(t, body.Customers, 2)
}

func TestToken_RequiresUser(t *testing.T) {
	_, err := execute(t, "token")
	assert.ErrorIs(t, err, domain.ErrMissingUserID)
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	out, err := execute(t, "token", "--user", demoUserID.String(), "--email", "owner@example.com")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	claims, err := service.NewAuthService(cfg.JWT).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, demoUserID, claims.UserID)
}
