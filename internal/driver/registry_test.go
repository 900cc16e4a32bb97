package driver

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/johndauphine/tabprof/internal/dbconfig"
)

type fakeDriver struct{ name string }

func (f *fakeDriver) Name() string             { return f.name }
func (f *fakeDriver) Aliases() []string        { return []string{f.name + "-alias"} }
func (f *fakeDriver) Defaults() DriverDefaults { return DriverDefaults{Port: 1} }
func (f *fakeDriver) Dialect() Dialect         { return nil }
func (f *fakeDriver) Open(context.Context, *dbconfig.SourceConfig) (*sql.DB, error) {
	return nil, errors.New("not implemented")
}

func TestRegisterAndGet(t *testing.T) {
	Register(&fakeDriver{name: "fakedb"})

	for _, name := range []string{"fakedb", "FAKEDB", " fakedb-alias "} {
		d, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", name, err)
		}
		if d.Name() != "fakedb" {
			t.Errorf("Get(%q).Name() = %q", name, d.Name())
		}
	}

	found := false
	for _, name := range Available() {
		if name == "fakedb" {
			found = true
		}
	}
	if !found {
		t.Errorf("fakedb not in Available(): %v", Available())
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("no-such-db")
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownDriver", err)
	}
	if GetDialect("no-such-db") != nil {
		t.Error("GetDialect(unknown) should be nil")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(&fakeDriver{name: "dupdb"})
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(&fakeDriver{name: "dupdb"})
}
