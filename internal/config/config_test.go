package config

import (
	"testing"

	"github.com/resym-go/resymgo/internal/cxx"
)

func TestPolicyFromEnvDefaultsWhenUnset(t *testing.T) {
	t.Setenv("RESYMGO_PRIMITIVE_FLAVOR", "")
	os_unsetAll(t)

	got := PolicyFromEnv()
	want := cxx.DefaultPolicy()
	if got != want {
		t.Errorf("PolicyFromEnv() with no env vars = %+v, want default %+v", got, want)
	}
}

func TestPolicyFromEnvOverridesFlavor(t *testing.T) {
	os_unsetAll(t)
	t.Setenv("RESYMGO_PRIMITIVE_FLAVOR", "msvc")

	got := PolicyFromEnv()
	if got.PrimitiveFlavor != cxx.FlavorMsvc {
		t.Errorf("PrimitiveFlavor = %v, want FlavorMsvc", got.PrimitiveFlavor)
	}
}

func TestLogLevelDefault(t *testing.T) {
	os_unsetAll(t)
	if got := LogLevel(); got != "info" {
		t.Errorf("LogLevel() = %q, want info", got)
	}
}

func os_unsetAll(t *testing.T) {
	t.Helper()
	for _, k := range []string{envPrimitiveFlavor, envAccessFlavor, envIgnoreStd, envLogLevel} {
		t.Setenv(k, "")
	}
}
