// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// helloRoot is the filesystem root: a directory holding one immutable
// regular file named "hello".
type helloRoot struct {
	gofuse.Inode
	greeting string
}

var _ gofuse.InodeEmbedder = (*helloRoot)(nil)
var _ gofuse.NodeOnAdder = (*helloRoot)(nil)

func newHelloRoot(greeting string) *helloRoot {
	return &helloRoot{greeting: greeting}
}

func (r *helloRoot) OnAdd(ctx context.Context) {
	file := r.NewPersistentInode(ctx, &gofuse.MemRegularFile{
		Data: []byte(r.greeting),
		Attr: fuse.Attr{Mode: 0o444},
	}, gofuse.StableAttr{})
	r.AddChild("hello", file, true)
}
