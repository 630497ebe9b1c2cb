package logic

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"gibber/shared"
	"sync"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_key_store.go -package mocks gibber/logic IKeyStore

// IKeyStore holds the instance actor's key, used to sign outbound fetches.
type IKeyStore interface {
	// GetInstanceKey returns nil and an empty key id if no instance key is configured.
	GetInstanceKey() (privKey *rsa.PrivateKey, keyId string, err error)
	MakeKeyPair() (pubKey, privKey string, err error)
}

type keyStore struct {
	cfg     *shared.Config
	idb     shared.IdBuilder
	once    sync.Once
	privKey *rsa.PrivateKey
	loadErr error
}

func NewKeyStore(cfg *shared.Config) IKeyStore {
	return &keyStore{cfg: cfg, idb: shared.IdBuilder{Host: cfg.Host}}
}

func (ks *keyStore) GetInstanceKey() (*rsa.PrivateKey, string, error) {

	inst := ks.cfg.Instance
	if inst == nil || inst.PrivKey == "" {
		return nil, "", nil
	}
	ks.once.Do(func() {
		ks.privKey, ks.loadErr = ks.parsePrivKey(inst.PrivKey)
	})
	if ks.loadErr != nil {
		return nil, "", ks.loadErr
	}
	return ks.privKey, ks.idb.ActorKeyId(inst.User), nil
}

func (ks *keyStore) parsePrivKey(privKeyStr string) (*rsa.PrivateKey, error) {

	var err error
	block, _ := pem.Decode([]byte(privKeyStr))
	if block == nil {
		return nil, errors.New("instance private key is not PEM encoded")
	}
	privKeyBytes := block.Bytes
	if x509.IsEncryptedPEMBlock(block) {
		privKeyBytes, err = x509.DecryptPEMBlock(block, []byte(ks.cfg.Secrets.InstancePrivKeyPass))
		if err != nil {
			return nil, err
		}
	}
	privkey, err := x509.ParsePKCS1PrivateKey(privKeyBytes)
	if err != nil {
		return nil, err
	}
	return privkey, nil
}

func (ks *keyStore) MakeKeyPair() (pubKey, privKey string, err error) {

	pubKey = ""
	privKey = ""
	err = nil

	// Generate RSA key
	var key *rsa.PrivateKey
	key, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return
	}
	// Extract public component.
	pub := key.Public()

	// Encode private key to PKCS#1, with password
	keyRaw := x509.MarshalPKCS1PrivateKey(key)
	encBlock, err := x509.EncryptPEMBlock(
		rand.Reader, "RSA PRIVATE KEY", keyRaw,
		[]byte(ks.cfg.Secrets.InstancePrivKeyPass), x509.PEMCipherAES256)
	if err != nil {
		return
	}
	keyPEM := pem.EncodeToMemory(encBlock)

	// Encode public key to PKIX
	pubBytes, err := x509.MarshalPKIXPublicKey(pub.(*rsa.PublicKey))
	if err != nil {
		return
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})

	pubKey = string(pubPEM)
	privKey = string(keyPEM)

	return
}
