package mta

import "github.com/taurusgroup/mta/pkg/math/curve"

// VerifyBAgainstPublic returns true if the point B = b•G known from elsewhere
// (for instance a config.Public) equals the one carried by a MessageB.
// No proof is checked.
func VerifyBAgainstPublic(public, fromMessage curve.Point) bool {
	if public == nil || fromMessage == nil {
		return false
	}
	return public.Equal(fromMessage)
}

// VerifyBAgainstPublic compares public with the point carried by m.BProof.
func (m *MessageB) VerifyBAgainstPublic(public curve.Point) bool {
	if m == nil || m.BProof == nil {
		return false
	}
	return VerifyBAgainstPublic(public, m.BProof.X)
}
