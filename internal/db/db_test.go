package db

import "testing"

func TestOpenParsesDSN(t *testing.T) {
	d, err := Open("root:@tcp(127.0.0.1:4000)/")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	if d.Addr != "127.0.0.1:4000" {
		t.Fatalf("unexpected addr: %s", d.Addr)
	}
}

func TestOpenRejectsBadDSN(t *testing.T) {
	if _, err := Open("root@127.0.0.1:4000"); err == nil {
		t.Fatalf("expected dsn error")
	}
}
