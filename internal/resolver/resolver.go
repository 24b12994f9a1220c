// Package resolver normalizes heterogeneous fault-code notations into one
// canonical record lookup. Technicians enter whatever their tooling shows:
// "SPN 157 FMI 18" (J1939), "P0087" (OBD-II), "SID 27" / "PID 157"
// (J1587/J1708) or a bare OEM number like "559".
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/servicesync-ai/servicesync/internal/models"
)

var (
	spnFMIPattern = regexp.MustCompile(`^SPN\s*(\d+)\s*FMI\s*(\d+)`)
	obd2Pattern   = regexp.MustCompile(`^P\d{4}$`)
	pidSIDPattern = regexp.MustCompile(`^(SID|PID)\s*(\d+)$`)
)

// Lookup is the subset of fault code storage the resolver needs.
type Lookup interface {
	GetBySPNFMI(ctx context.Context, spn, fmi int64) (*models.FaultCode, error)
	GetByOBD2(ctx context.Context, code string) (*models.FaultCode, error)
	GetByPIDSID(ctx context.Context, pidSID string) (*models.FaultCode, error)
	GetByOEMCode(ctx context.Context, code int64) (*models.FaultCode, error)
}

// Resolver auto-detects the notation of a fault code input and looks it up.
type Resolver struct {
	store Lookup
}

// New creates a resolver backed by the given lookup store.
func New(store Lookup) *Resolver {
	return &Resolver{store: store}
}

// Resolve detects the notation and returns the matching fault code enriched
// with its typical causes and edge cases, or (nil, nil) when nothing
// matches. Notations are tried in fixed priority order; the first match
// wins. Read-only and side-effect free.
func (r *Resolver) Resolve(ctx context.Context, input string) (*models.FaultCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input))
	if code == "" {
		return nil, nil
	}

	// SPN/FMI format: "SPN 157 FMI 18"
	if m := spnFMIPattern.FindStringSubmatch(code); m != nil {
		spn, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse SPN %q: %w", m[1], err)
		}
		fmi, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse FMI %q: %w", m[2], err)
		}
		return r.store.GetBySPNFMI(ctx, spn, fmi)
	}

	// OBD-II format: "P0087", "P0420"
	if obd2Pattern.MatchString(code) {
		return r.store.GetByOBD2(ctx, code)
	}

	// PID/SID format: "SID 27", "PID157" - normalized to "SID 27" form
	if m := pidSIDPattern.FindStringSubmatch(code); m != nil {
		return r.store.GetByPIDSID(ctx, m[1]+" "+m[2])
	}

	// OEM numeric format: "559"
	if oem, err := strconv.ParseInt(code, 10, 64); err == nil {
		return r.store.GetByOEMCode(ctx, oem)
	}

	// Malformed or unrecognized input fails closed to not-found.
	return nil, nil
}
