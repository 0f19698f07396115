// Package auth resolves the bearer token used for API requests.
//
// Tokens are looked up in the environment (BEARER_TOKEN, then
// TWSEARCH_BEARER_TOKEN), then in the configuration file, then in the
// system keyring, where `twsearch auth login` stores them.
package auth
