// Package cookie reads and writes binary HTTP cookie values, plain, signed
// or encrypted.
//
// Values are base64url encoded on the wire. Signing (HMAC-SHA256) and
// encryption (AES-256-GCM) need a secret of at least [MinSecretLength]
// bytes; without one they return [ErrNoSecret].
//
//	m := cookie.New(
//		cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//		cookie.WithSecure(true),
//	)
//	if err := m.SetEncrypted(w, "hireloop_user_location", data, 86400); err != nil {
//		return err
//	}
//	data, err := m.GetEncrypted(r, "hireloop_user_location")
//
// Tampered values fail with [ErrBadSig] or [ErrDecrypt].
package cookie
