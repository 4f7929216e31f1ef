package randomgenerator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
)

const (
	otpMin = 100000
	otpMax = 999999
)

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

var _ (contract.IRandomGenerator) = (*RandomGenerator)(nil)

func (rg *RandomGenerator) GenerateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)

	if err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(b)

	return token, nil
}

// GenerateOTP draws uniformly from [100000, 999999].
func (rg *RandomGenerator) GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
