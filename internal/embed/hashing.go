package embed

import (
	"encoding/binary"
	"math"
	"regexp"
	"strings"

	"github.com/findable-ai/findable-score/pkg/hashutil"
)

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// HashingModel is a deterministic feature-hashing embedder: each token is
// hashed into one of Dimensions() buckets with a sign derived from the
// same hash, the bucket vector is accumulated, then L2-normalized. Two
// texts sharing many tokens land close in cosine space; identical text
// always hashes to the identical vector.
type HashingModel struct {
	name string
	dims int
}

func NewHashingModel(name string, dims int) HashingModel {
	if dims <= 0 {
		dims = ReferenceDimensions
	}
	return HashingModel{name: name, dims: dims}
}

func DefaultHashingModel() HashingModel {
	return NewHashingModel("hashing-v1", ReferenceDimensions)
}

func (m HashingModel) Name() string    { return m.name }
func (m HashingModel) Dimensions() int { return m.dims }

func (m HashingModel) Embed(text string) ([]float32, error) {
	vec := make([]float32, m.dims)
	tokens := tokenRe.FindAllString(strings.ToLower(text), -1)
	for _, tok := range tokens {
		digest, err := hashutil.HashBytes([]byte(tok), hashutil.HashAlgoSHA256)
		if err != nil {
			return nil, err
		}
		bucket, sign := bucketAndSign(digest, m.dims)
		vec[bucket] += sign
	}
	normalize(vec)
	return vec, nil
}

// bucketAndSign derives a bucket index in [0,dims) and a +1/-1 sign from
// the first 8 bytes of a hex digest, so the mapping is a pure function of
// the digest alone.
func bucketAndSign(hexDigest string, dims int) (int, float32) {
	raw := hexDigest
	if len(raw) > 16 {
		raw = raw[:16]
	}
	var b [8]byte
	n := decodeHexInto(raw, b[:])
	v := binary.BigEndian.Uint64(b[:n])
	bucket := int(v % uint64(dims))
	sign := float32(1)
	if v&1 == 1 {
		sign = -1
	}
	return bucket, sign
}

func decodeHexInto(s string, dst []byte) int {
	n := 0
	for i := 0; i+1 < len(s) && n < len(dst); i += 2 {
		hi := hexVal(s[i])
		lo := hexVal(s[i+1])
		dst[n] = hi<<4 | lo
		n++
	}
	return n
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func normalize(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] /= norm
	}
}
