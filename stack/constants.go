// Package stack provides the CDK stacks of the data-governance control
// plane: the platform's own backend, the per-environment parameter store and
// pivot role, and the generated per-pipeline delivery stacks.
package stack

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Tag applied to every resource the platform creates.
const (
	DefaultResourceTagKey   = "Application"
	DefaultResourceTagValue = "dataall"
)

// Aurora database created for the control plane backend.
const BackendDatabaseName = "datagov"

// externalIDLength is the size of the generated pivot role external id.
const externalIDLength = 32

const externalIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// PipelineResourcePrefix names every resource of a generated pipeline stack.
// CodePipeline caps pipeline names at 100 and several downstream resources
// at 63 characters, so the prefix is truncated to 63.
func PipelineResourcePrefix(envResourcePrefix, pipelineURI string) string {
	return truncate(fmt.Sprintf("%s-omics-%s", envResourcePrefix, pipelineURI), 63)
}

// GenerateExternalID produces the random alphanumeric external id stored in
// SSM and required by tenant pivot role trust policies.
func GenerateExternalID() string {
	id := make([]byte, externalIDLength)
	max := big.NewInt(int64(len(externalIDAlphabet)))
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		id[i] = externalIDAlphabet[n.Int64()]
	}
	return string(id)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
