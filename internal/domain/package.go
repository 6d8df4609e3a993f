// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain holds the package index model, the ports the search core
// depends on, and the error kinds it surfaces.
package domain

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Repository is a repository tag from the fixed universe pacsift filters on.
type Repository string

// Repository tags.
const (
	RepoCore     Repository = "core"
	RepoExtra    Repository = "extra"
	RepoMultilib Repository = "multilib"
	RepoAUR      Repository = "AUR"
)

// Repositories returns the tag universe in display order.
func Repositories() []Repository {
	return []Repository{RepoCore, RepoExtra, RepoMultilib, RepoAUR}
}

// ParseRepository maps an index repository name onto the tag universe.
// Matching is case-insensitive; unknown names report false.
func ParseRepository(name string) (Repository, bool) {
	name = strings.TrimSpace(name)
	for _, repo := range Repositories() {
		if strings.EqualFold(name, string(repo)) {
			return repo, true
		}
	}

	return "", false
}

// Label returns the human readable repository name.
func (r Repository) Label() string {
	if r == RepoAUR {
		return string(r)
	}

	return cases.Title(language.English).String(string(r))
}

// PackageResult is a single package returned by the remote index.
// Values are produced by a SearchProvider and never mutated afterwards.
type PackageResult struct {
	Name         string     `json:"name" yaml:"name"`
	Version      string     `json:"version" yaml:"version"`
	Description  string     `json:"description" yaml:"description"`
	Repository   Repository `json:"repository" yaml:"repository"`
	Maintainer   string     `json:"maintainer" yaml:"maintainer"`
	UpstreamURL  string     `json:"upstreamurl" yaml:"upstreamurl"`
	Dependencies []string   `json:"dependlist" yaml:"dependlist"`
	LastUpdated  time.Time  `json:"lastupdated" yaml:"lastupdated"`
}

// Key identifies a result within one result set.
func (p PackageResult) Key() string {
	return string(p.Repository) + "/" + p.Name
}

// Same reports whether other describes the same package build.
func (p PackageResult) Same(other PackageResult) bool {
	return p.Key() == other.Key() && p.Version == other.Version
}

// Clone returns a copy that shares no memory with p.
func (p PackageResult) Clone() PackageResult {
	p.Dependencies = slices.Clone(p.Dependencies)

	return p
}

// ClonePackages deep-copies a result slice. Nil stays nil.
func ClonePackages(in []PackageResult) []PackageResult {
	if in == nil {
		return nil
	}

	out := make([]PackageResult, len(in))
	for i, pkg := range in {
		out[i] = pkg.Clone()
	}

	return out
}

// PackageNames returns the names of pkgs in order.
func PackageNames(pkgs []PackageResult) []string {
	names := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		names = append(names, pkg.Name)
	}

	return names
}
