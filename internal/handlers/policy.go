package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// PolicyDocument is the subset of the IAM policy grammar the handlers emit.
type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

type PolicyStatement struct {
	Sid       string                       `json:"Sid,omitempty"`
	Effect    string                       `json:"Effect"`
	Principal map[string]string            `json:"Principal,omitempty"`
	Action    any                          `json:"Action"`
	Resource  any                          `json:"Resource"`
	Condition map[string]map[string][]string `json:"Condition,omitempty"`
}

// JSON renders the document for the S3 APIs, which take policies as strings.
func (d PolicyDocument) JSON() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrap(err, "marshal policy document")
	}
	return string(raw), nil
}

// AccessPointPolicyDocument grants a principal's sessions list and read
// access to one S3 prefix through an access point. The aws:userId condition
// matches any session of the role identified by principalID.
func AccessPointPolicyDocument(principalID, accessPointArn, s3Prefix string) PolicyDocument {
	return PolicyDocument{
		Version: "2012-10-17",
		Statement: []PolicyStatement{
			{
				Sid:       principalID + "0",
				Effect:    "Allow",
				Principal: map[string]string{"AWS": "*"},
				Action:    "s3:ListBucket",
				Resource:  accessPointArn,
				Condition: map[string]map[string][]string{
					"StringLike": {
						"s3:prefix":  {s3Prefix + "/*"},
						"aws:userId": {principalID + ":*"},
					},
				},
			},
			{
				Sid:       principalID + "1",
				Effect:    "Allow",
				Principal: map[string]string{"AWS": "*"},
				Action:    "s3:GetObject",
				Resource:  []string{fmt.Sprintf("%s/object/%s/*", accessPointArn, s3Prefix)},
				Condition: map[string]map[string][]string{
					"StringLike": {
						"aws:userId": {principalID + ":*"},
					},
				},
			},
		},
	}
}
