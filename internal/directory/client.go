package directory

import (
	"crypto/tls"
	"fmt"

	"printtrack/internal/config"

	"github.com/go-ldap/ldap/v3"
)

// Entry is one directory user as seen by the sync.
type Entry struct {
	DN       string
	Username string
	Email    string
	FullName string
}

// Directory abstracts the LDAP server so the sync logic can be exercised
// against a fake.
type Directory interface {
	Search() ([]Entry, error)
	Ping() error
}

// LDAPDirectory talks to a real LDAP server per config. One connection per
// call; sync runs are rare enough that pooling buys nothing.
type LDAPDirectory struct {
	cfg config.LDAPConfig
}

// NewLDAPDirectory creates a directory over the configured server.
func NewLDAPDirectory(cfg config.LDAPConfig) *LDAPDirectory {
	return &LDAPDirectory{cfg: cfg}
}

func (d *LDAPDirectory) dial() (*ldap.Conn, error) {
	conn, err := ldap.DialURL(d.cfg.URL, ldap.DialWithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}))
	if err != nil {
		return nil, fmt.Errorf("dial ldap: %w", err)
	}
	if d.cfg.BindDN != "" {
		if err := conn.Bind(d.cfg.BindDN, d.cfg.BindPass); err != nil {
			conn.Close()
			return nil, fmt.Errorf("bind ldap: %w", err)
		}
	}
	return conn, nil
}

// Ping verifies connectivity and bind credentials.
func (d *LDAPDirectory) Ping() error {
	conn, err := d.dial()
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}

// Search returns all user entries under the configured base DN.
func (d *LDAPDirectory) Search() ([]Entry, error) {
	conn, err := d.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	req := ldap.NewSearchRequest(
		d.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		d.cfg.UserFilter,
		[]string{"dn", "sAMAccountName", "uid", "mail", "cn"},
		nil,
	)

	res, err := conn.SearchWithPaging(req, 500)
	if err != nil {
		return nil, fmt.Errorf("search ldap: %w", err)
	}

	var entries []Entry
	for _, e := range res.Entries {
		username := e.GetAttributeValue("sAMAccountName")
		if username == "" {
			username = e.GetAttributeValue("uid")
		}
		if username == "" {
			continue
		}
		entries = append(entries, Entry{
			DN:       e.DN,
			Username: username,
			Email:    e.GetAttributeValue("mail"),
			FullName: e.GetAttributeValue("cn"),
		})
	}
	return entries, nil
}
