package transit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Encryption errors.
var (
	ErrInvalidKeySize   = errors.New("invalid key size")
	ErrCiphertextShort  = errors.New("ciphertext too short")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Encryptor handles reversible encryption of field values.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

type aesEncryptor struct {
	gcm cipher.AEAD
}

// AES returns an AES-GCM encryptor. Key must be 16, 24, or 32 bytes.
func AES(key []byte) (Encryptor, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesEncryptor{gcm: gcm}, nil
}

// Encrypt seals plaintext with a random nonce prepended to the result.
func (e *aesEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return e.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *aesEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	n := e.gcm.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextShort
	}
	plaintext, err := e.gcm.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// EncryptConverter encrypts string and []byte values into base64 text.
// Pair it with DecryptConverter on the opposite direction:
//
//	f := transit.NewFactory(
//	    transit.WithConverter("seal", transit.EncryptConverter(enc)),
//	    transit.WithConverter("open", transit.DecryptConverter(enc)),
//	)
//	transit.Define[Patient, PatientRow](f).
//	    FieldAToB("ssn", "ssn", transit.Using("seal")).
//	    FieldBToA("ssn", "ssn", transit.Using("open"))
func EncryptConverter(e Encryptor) Converter {
	return ConverterFunc(func(value any) (any, error) {
		text, err := textOf(value)
		if err != nil {
			return nil, err
		}
		sealed, err := e.Encrypt(text)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString(sealed), nil
	})
}

// DecryptConverter reverses EncryptConverter, producing a string.
func DecryptConverter(e Encryptor) Converter {
	return ConverterFunc(func(value any) (any, error) {
		text, err := textOf(value)
		if err != nil {
			return nil, err
		}
		sealed, err := base64.StdEncoding.DecodeString(string(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
		}
		plaintext, err := e.Decrypt(sealed)
		if err != nil {
			return nil, err
		}
		return string(plaintext), nil
	})
}
