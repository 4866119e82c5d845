// Package github is the adapter for the GitHub REST API.
//
// It covers the four calls the review pipeline needs: pull request
// metadata, the unified diff, file contents at a ref, and review
// submission. GitHub-specific wire types stay here so the domain
// layer remains platform-agnostic.
package github
