package calibration

import (
	"encoding/hex"
	"math/big"

	"github.com/findable-ai/findable-score/pkg/hashutil"
)

type Arm string

const (
	ArmControl   Arm = "control"
	ArmTreatment Arm = "treatment"
)

// AssignArm is a pure function of (siteID, treatmentAllocation): the
// same site always lands in the same arm for a given allocation, with
// no state and no randomness, per the fixed formula
// (SHA-256(site_id) mod 10000) / 10000 < treatment_allocation.
func AssignArm(siteID string, treatmentAllocation float64) Arm {
	digest, err := hashutil.HashBytes([]byte(siteID), hashutil.HashAlgoSHA256)
	if err != nil {
		return ArmControl
	}
	raw, err := hex.DecodeString(digest)
	if err != nil || len(raw) == 0 {
		return ArmControl
	}
	v := new(big.Int).Mod(new(big.Int).SetBytes(raw), big.NewInt(10000))
	bucket := float64(v.Int64()) / 10000
	if bucket < treatmentAllocation {
		return ArmTreatment
	}
	return ArmControl
}
