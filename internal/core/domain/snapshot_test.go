package domain_test

import (
	"testing"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

func TestSnapshotID_Deterministic(t *testing.T) {
	env := map[string]string{"CC": "clang", "MAKEFLAGS": "-j2"}
	if domain.SnapshotID(env) != domain.SnapshotID(env) {
		t.Error("SnapshotID() not deterministic")
	}
}

func TestSnapshotID_OrderIndependent(t *testing.T) {
	a := map[string]string{"CC": "clang", "CXX": "clang++", "MAX_JOBS": "4"}
	b := map[string]string{"MAX_JOBS": "4", "CXX": "clang++", "CC": "clang"}
	if domain.SnapshotID(a) != domain.SnapshotID(b) {
		t.Error("SnapshotID() not order independent")
	}
}

func TestSnapshotID_DifferentEnvs(t *testing.T) {
	a := map[string]string{"MAKEFLAGS": "-j2"}
	b := map[string]string{"MAKEFLAGS": "-j4"}
	if domain.SnapshotID(a) == domain.SnapshotID(b) {
		t.Error("SnapshotID() collided for different environments")
	}
}

func TestSnapshotID_Length(t *testing.T) {
	if got := len(domain.SnapshotID(nil)); got != 16 {
		t.Errorf("SnapshotID() length = %d, want 16", got)
	}
}
