package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPointPolicyDocument(t *testing.T) {
	doc := AccessPointPolicyDocument(
		"AROAEXAMPLEID",
		"arn:aws:s3:eu-west-1:111122223333:accesspoint/ap",
		"raw/trades",
	)

	require.Len(t, doc.Statement, 2)

	list := doc.Statement[0]
	assert.Equal(t, "AROAEXAMPLEID0", list.Sid)
	assert.Equal(t, "s3:ListBucket", list.Action)
	assert.Equal(t, []string{"raw/trades/*"}, list.Condition["StringLike"]["s3:prefix"])
	assert.Equal(t, []string{"AROAEXAMPLEID:*"}, list.Condition["StringLike"]["aws:userId"])

	read := doc.Statement[1]
	assert.Equal(t, "s3:GetObject", read.Action)
	assert.Equal(t, []string{"arn:aws:s3:eu-west-1:111122223333:accesspoint/ap/object/raw/trades/*"}, read.Resource)
	assert.Equal(t, []string{"AROAEXAMPLEID:*"}, read.Condition["StringLike"]["aws:userId"])
}

func TestPolicyDocumentJSON(t *testing.T) {
	doc := AccessPointPolicyDocument("AROAEXAMPLEID", "arn:aws:s3:::ap", "raw")

	raw, err := doc.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "2012-10-17", decoded["Version"])
	statements, ok := decoded["Statement"].([]any)
	require.True(t, ok)
	assert.Len(t, statements, 2)
}
