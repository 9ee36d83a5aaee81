// Package key supplies the hosting API authorization token.
//
// Provider resolves the token with explicit-value > named-file >
// default-file precedence:
//
//	token, err := key.Provider{Explicit: flagKey, File: flagKeyFile}.Get()
//	if errors.Is(err, key.ErrMissingKey) {
//	    // configuration error: nothing to authenticate with
//	}
//
// Grab implements the grab-key command: it downloads the vendor's own
// desktop client bundle and extracts the API token embedded in it,
// writing the result to a key file for later runs.
package key
