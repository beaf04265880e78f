package consensus

import (
	"errors"
	"fmt"
)

var ErrNoSequence = errors.New("no sequence found")

// VariantConsistencyError reports a record whose REF disagrees with an unmasked
// consensus base that no earlier, identical record explains. Accepted is the
// earlier record at the same position, nil when there was none.
type VariantConsistencyError struct {
	Pos       int
	Ref       string
	Alt       string
	Consensus byte
	Accepted  *Accepted
}

func (e *VariantConsistencyError) Error() string {
	if e.Accepted == nil {
		return fmt.Sprintf("inconsistent variant at position %d: REF %s ALT %s but consensus has %c and no variant was applied there",
			e.Pos, e.Ref, e.Alt, e.Consensus)
	}
	return fmt.Sprintf("inconsistent variant at position %d: REF %s ALT %s conflicts with applied variant REF %s ALT %s",
		e.Pos, e.Ref, e.Alt, e.Accepted.Ref, e.Accepted.Alt)
}

// PositionError is returned for a record outside the reference.
type PositionError struct {
	Pos    int
	Length int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("variant position %d outside reference of length %d", e.Pos, e.Length)
}
