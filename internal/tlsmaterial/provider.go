// Package tlsmaterial is the external collaborator that turns on-disk TLS
// material (certificate, key, optional client-CA chain, optional key
// passphrase) into a *tls.Config. Certificate parsing itself is named as
// out of scope in the specification (§1); this package is the small
// interface boundary the listener manager consumes so the core never
// touches a PEM file directly.
package tlsmaterial

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/hookhost/hookhost/internal/config"
)

// Provider yields the *tls.Config a secure listener should serve with.
type Provider interface {
	Config() (*tls.Config, error)
}

// FileProvider loads certificate/key/CA material from disk, per a
// config.TLSConfig.
type FileProvider struct {
	cfg *config.TLSConfig
}

// NewFileProvider returns a Provider reading from cfg. cfg must satisfy
// cfg.Complete() or Config() will fail.
func NewFileProvider(cfg *config.TLSConfig) *FileProvider {
	return &FileProvider{cfg: cfg}
}

// Config loads the certificate and key (decrypting the key if
// KeyPassphrase is set), optionally builds a client-CA pool from CAFile,
// and returns a *tls.Config requiring TLS 1.2+ with SNI resolution
// delegated to the standard library's NameToCertificate machinery.
func (p *FileProvider) Config() (*tls.Config, error) {
	if !p.cfg.Complete() {
		return nil, fmt.Errorf("tlsmaterial: incomplete TLS material (CertFile/KeyFile required)")
	}

	cert, err := loadKeyPair(p.cfg.CertFile, p.cfg.KeyFile, p.cfg.KeyPassphrase)
	if err != nil {
		return nil, err
	}

	tlsCfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}

	if p.cfg.CAFile != "" {
		pool, err := loadCAPool(p.cfg.CAFile)
		if err != nil {
			return nil, err
		}
		tlsCfg.ClientCAs = pool
		tlsCfg.ClientAuth = tls.VerifyClientCertIfGiven
	}

	return tlsCfg, nil
}

func loadKeyPair(certFile, keyFile, passphrase string) (tls.Certificate, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("reading cert file: %w", err)
	}
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("reading key file: %w", err)
	}

	if passphrase != "" {
		keyPEM, err = decryptKeyPEM(keyPEM, passphrase)
		if err != nil {
			return tls.Certificate{}, err
		}
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("parsing X509 key pair: %w", err)
	}
	return cert, nil
}

// decryptKeyPEM decrypts a legacy PEM-encrypted private key block.
// x509.DecryptPEMBlock is deprecated upstream (PEM encryption is weak by
// modern standards) but remains the documented path for daemons that
// must still accept passphrase-protected keys.
func decryptKeyPEM(keyPEM []byte, passphrase string) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("decoding PEM key block")
	}
	//lint:ignore SA1019 legacy encrypted-PEM key support is an explicit config feature
	decrypted, err := x509.DecryptPEMBlock(block, []byte(passphrase)) //nolint:staticcheck
	if err != nil {
		return nil, fmt.Errorf("decrypting key with passphrase: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: decrypted}), nil
}

func loadCAPool(caFile string) (*x509.CertPool, error) {
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("reading CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in CA file %s", caFile)
	}
	return pool, nil
}
