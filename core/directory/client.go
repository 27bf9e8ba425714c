package directory

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// Cursor streams search results. *ldap.SearchAsync responses satisfy it.
type Cursor interface {
	Next() bool
	Entry() *ldap.Entry
	Err() error
}

// Session is an authenticated directory connection.
type Session interface {
	// Search starts a subtree search and streams matching entries.
	Search(ctx context.Context, baseDN, filter string) Cursor
	// Close releases the connection.
	Close() error
}

// Dialer opens authenticated sessions.
type Dialer func(ctx context.Context, cfg Config) (Session, error)

// Dial connects to cfg.URL and binds with the configured credentials.
func Dial(ctx context.Context, cfg Config) (Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	conn, err := ldap.DialURL(cfg.URL,
		ldap.DialWithDialer(&net.Dialer{Timeout: timeoutDuration}),
		ldap.DialWithTLSConfig(&tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to directory %s: %w", cfg.URL, err)
	}
	conn.SetTimeout(timeoutDuration)

	if err := ctx.Err(); err != nil {
		conn.Close()
		return nil, err
	}

	if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind as %s: %w", cfg.BindDN, err)
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 64
	}

	return &ldapSession{conn: conn, bufferSize: bufferSize}, nil
}

type ldapSession struct {
	conn       *ldap.Conn
	bufferSize int
}

func (s *ldapSession) Search(ctx context.Context, baseDN, filter string) Cursor {
	req := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // no size limit
		0, // no time limit
		false,
		filter,
		nil, // all attributes
		nil,
	)
	return s.conn.SearchAsync(ctx, req, s.bufferSize)
}

func (s *ldapSession) Close() error {
	return s.conn.Close()
}

// Attributes flattens an entry into attribute name -> value. Single-valued
// attributes map to a string, multi-valued ones to a []string in server order.
// Names are lower-cased since directory attribute names are case-insensitive.
func Attributes(entry *ldap.Entry) map[string]any {
	out := make(map[string]any, len(entry.Attributes))
	for _, attr := range entry.Attributes {
		switch len(attr.Values) {
		case 0:
			continue
		case 1:
			out[strings.ToLower(attr.Name)] = attr.Values[0]
		default:
			out[strings.ToLower(attr.Name)] = append([]string{}, attr.Values...)
		}
	}
	return out
}
