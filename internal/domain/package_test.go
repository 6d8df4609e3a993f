// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepository(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Repository
		ok    bool
	}{
		{"core", RepoCore, true},
		{"Extra", RepoExtra, true},
		{" MULTILIB ", RepoMultilib, true},
		{"aur", RepoAUR, true},
		{"testing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseRepository(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepositoryLabel(t *testing.T) {
	t.Parallel()

	labels := make([]string, 0, len(Repositories()))
	for _, repo := range Repositories() {
		labels = append(labels, repo.Label())
	}

	assert.Equal(t, []string{"Core", "Extra", "Multilib", "AUR"}, labels)
}

func TestPackageResultIdentity(t *testing.T) {
	t.Parallel()

	pkg := PackageResult{Name: "htop", Version: "3.4.1-1", Repository: RepoExtra}

	assert.Equal(t, "extra/htop", pkg.Key())

	rebuilt := pkg
	rebuilt.Version = "3.4.1-2"

	aur := pkg
	aur.Repository = RepoAUR

	assert.True(t, pkg.Same(pkg))
	assert.False(t, pkg.Same(rebuilt), "a different build is not the same package")
	assert.False(t, pkg.Same(aur), "same name in another repository is a different package")
}

func TestClonePackagesSharesNoMemory(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ClonePackages(nil))

	in := []PackageResult{{Name: "vim", Dependencies: []string{"glibc", "gpm"}}}
	out := ClonePackages(in)

	require.Equal(t, in, out)

	out[0].Dependencies[0] = "musl"
	out[0].Name = "neovim"

	assert.Equal(t, "glibc", in[0].Dependencies[0])
	assert.Equal(t, "vim", in[0].Name)
}

func TestPackageNames(t *testing.T) {
	t.Parallel()

	assert.Empty(t, PackageNames(nil))
	assert.Equal(t, []string{"a", "b"}, PackageNames([]PackageResult{{Name: "a"}, {Name: "b"}}))
}
