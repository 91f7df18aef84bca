// Package utils provides shared helpers for the sealbox CLI: project root
// discovery, piped stdin reading, and no-echo terminal prompts for secret
// values.
//
// Project discovery walks up from the working directory looking for a
// .sealbox directory, stopping above the user's home directory, so commands
// work from any subdirectory of a project.
package utils
