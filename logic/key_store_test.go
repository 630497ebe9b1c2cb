package logic_test

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"gibber/logic"
	"gibber/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestKeyStoreWithoutInstance(t *testing.T) {
	ks := logic.NewKeyStore(makeTestConfig())
	key, keyId, err := ks.GetInstanceKey()
	assert.NoError(t, err)
	assert.Nil(t, key)
	assert.Equal(t, "", keyId)
}

func TestKeyStoreRoundTrip(t *testing.T) {
	cfg := makeTestConfig()
	cfg.Secrets.InstancePrivKeyPass = "correct horse"
	ks := logic.NewKeyStore(cfg)
	pubKeyPem, privKeyPem, err := ks.MakeKeyPair()
	require.NoError(t, err)
	cfg.Instance = &shared.InstanceActor{User: "gibber", PubKey: pubKeyPem, PrivKey: privKeyPem}

	key, keyId, err := ks.GetInstanceKey()
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, "https://gibber.example/api/activitypub/gibber#main-key", keyId)

	block, _ := pem.Decode([]byte(pubKeyPem))
	require.NotNil(t, block)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(pub.(*rsa.PublicKey)))
}

func TestKeyStoreWrongPassphrase(t *testing.T) {
	cfg := makeTestConfig()
	cfg.Secrets.InstancePrivKeyPass = "one"
	_, privKeyPem, err := logic.NewKeyStore(cfg).MakeKeyPair()
	require.NoError(t, err)

	cfg.Secrets.InstancePrivKeyPass = "two"
	cfg.Instance = &shared.InstanceActor{User: "gibber", PrivKey: privKeyPem}
	_, _, err = logic.NewKeyStore(cfg).GetInstanceKey()
	assert.Error(t, err)
}
