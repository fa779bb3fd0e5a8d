package vice

import "testing"

func TestParseVersionBannerAccepted(t *testing.T) {
	v, err := parseVersionBanner("x64sc (VICE C64SC Emulator) 3.8\nCommit: deadbeef\n")
	if err != nil {
		t.Fatalf("parseVersionBanner: %v", err)
	}
	if v.String() != "3.8.0" {
		t.Fatalf("version = %s, want 3.8.0", v)
	}
}

func TestParseVersionBannerTooOld(t *testing.T) {
	_, err := parseVersionBanner("x64sc (VICE C64 Emulator) 2.4\n")
	if err == nil {
		t.Fatal("expected an error for a version older than MinSupportedVersion")
	}
	rerr, ok := err.(*RunnerError)
	if !ok || rerr.Code != ErrVersionTooOld {
		t.Fatalf("expected ErrVersionTooOld, got %v", err)
	}
}

func TestParseVersionBannerUnparseable(t *testing.T) {
	_, err := parseVersionBanner("garbage output with no version number")
	if err == nil {
		t.Fatal("expected an error for a banner with no version number")
	}
	rerr, ok := err.(*RunnerError)
	if !ok || rerr.Code != ErrVersionUnparseable {
		t.Fatalf("expected ErrVersionUnparseable, got %v", err)
	}
}
