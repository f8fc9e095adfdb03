// Package editor serves the HTTP API behind the template editing frontend:
// listing, reading, writing, renaming and deleting files under a single
// root directory. Every request path is resolved against that root and
// anything escaping it is refused.
//
// Saving a schema document (.yml.json or .ini.json) runs it through
// [schema.Validate] first, so broken trees are rejected before they reach
// the generator. Content that is not valid JSON is stored as-is: the
// frontend keeps drafts in whatever state the user left them.
//
// The API reports errors as {"detail": "..."} bodies; the frontend matches
// on those strings, so they are part of the contract.
package editor
