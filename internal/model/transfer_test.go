package model

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceNumber(t *testing.T) {
	now := time.Date(2025, 8, 27, 11, 46, 47, 0, time.UTC)

	ref := NewReferenceNumber(now)

	require.Regexp(t, regexp.MustCompile(`^TXF-20250827114647-[0-9A-F]{8}$`), ref)
}

func TestNewReferenceNumber_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2025, 8, 27, 16, 46, 47, 0, loc)

	ref := NewReferenceNumber(local)

	assert.Contains(t, ref, "TXF-20250827114647-")
}

func TestNewReferenceNumber_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := NewReferenceNumber(now)
		require.False(t, seen[ref], "duplicate reference number %s", ref)
		seen[ref] = true
	}
}
