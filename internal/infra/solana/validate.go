package solana

import solana "github.com/gagliardetto/solana-go"

// ValidWalletAddress reports whether s is a plausible base58 public key
// (32-44 characters that parse). Enforced at the transport boundary before
// any ledger interaction.
func ValidWalletAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}

// ValidSignature reports whether s is a plausible base58 transaction
// signature (87-88 characters that parse).
func ValidSignature(s string) bool {
	if len(s) < 87 || len(s) > 88 {
		return false
	}
	_, err := solana.SignatureFromBase58(s)
	return err == nil
}
