package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTRoundTrip(t *testing.T) {
	uid := primitive.NewObjectID()

	tok, err := signJWT("secret", uid)
	require.NoError(t, err)

	got, err := parseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	tok, err := signJWT("secret", primitive.NewObjectID())
	require.NoError(t, err)

	_, err = parseJWT("other_secret", tok)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := parseJWT("secret", "not-a-token")
	assert.Error(t, err)
}
