package mysql

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"os"
	"syscall"

	mysqldriver "github.com/go-sql-driver/mysql"
	"golang.org/x/term"
)

// customTLSName is the driver-registered TLS config used by --tls=custom.
const customTLSName = "idxlint-custom"

// tlsParams maps a TLS mode to the DSN parameter it appends. Presence in the
// map doubles as mode validation.
var tlsParams = map[string]string{
	"":            "",
	"disabled":    "",
	"preferred":   "&tls=preferred",
	"required":    "&tls=true",
	"skip-verify": "&tls=skip-verify",
	"custom":      "&tls=" + customTLSName,
}

// ConnectionConfig holds MySQL connection parameters for the metadata reads.
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Socket   string
	TLSMode  string // key of tlsParams
	TLSCA    string // CA certificate path, required when TLSMode == "custom"
}

// Connect opens a connection and verifies it with a ping. The pool is kept
// small: index metadata loading issues one query per run.
func Connect(cfg ConnectionConfig) (*sql.DB, error) {
	if cfg.TLSMode == "custom" {
		if cfg.TLSCA == "" {
			return nil, fmt.Errorf("--tls-ca is required when --tls=custom")
		}
		if err := registerCustomTLS(cfg.TLSCA); err != nil {
			return nil, fmt.Errorf("TLS setup failed: %w", err)
		}
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	return db, nil
}

// registerCustomTLS loads a CA certificate PEM file and registers it with the
// driver under customTLSName.
func registerCustomTLS(caPath string) error {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return fmt.Errorf("reading CA certificate %q: %w", caPath, err)
	}

	rootCAs := x509.NewCertPool()
	if !rootCAs.AppendCertsFromPEM(pem) {
		return fmt.Errorf("no valid certificates found in %q", caPath)
	}

	return mysqldriver.RegisterTLSConfig(customTLSName, &tls.Config{
		RootCAs: rootCAs,
	})
}

// buildDSN formats user:password@protocol(address)/dbname?params. A socket
// path wins over host:port; an empty database falls back to
// information_schema, which is all the metadata loader needs.
func buildDSN(cfg ConnectionConfig) (string, error) {
	tlsParam, ok := tlsParams[cfg.TLSMode]
	if !ok {
		return "", fmt.Errorf("invalid TLS mode %q: valid values are disabled, preferred, required, skip-verify, custom", cfg.TLSMode)
	}

	var addr string
	if cfg.Socket != "" {
		addr = fmt.Sprintf("unix(%s)", cfg.Socket)
	} else {
		addr = fmt.Sprintf("tcp(%s:%d)", cfg.Host, cfg.Port)
	}

	db := cfg.Database
	if db == "" {
		db = "information_schema"
	}

	return fmt.Sprintf("%s:%s@%s/%s?parseTime=true&interpolateParams=true%s",
		cfg.User, cfg.Password, addr, db, tlsParam), nil
}

// PromptPassword reads a password from the terminal without echoing.
func PromptPassword() string {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println() // newline after hidden input
	if err != nil {
		return ""
	}
	return string(password)
}
