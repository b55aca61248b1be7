package main

import (
	"context"
	"fmt"
	"io"
)

// view prints the blocks of a recordio file written by find, or its options
// and statistics if flags.stats is set.
func view(ctx context.Context, stdout io.Writer, flags viewFlags, path string) error {
	rio, err := readBlockSet(ctx, path)
	if err != nil {
		return err
	}
	if flags.stats {
		_, err = fmt.Fprintf(stdout, "opts: %+v\nstats: %v\nblocks: %d\n", rio.Opts, rio.Stats, rio.BlockSet.Size())
		return err
	}
	return writeBlockSet(ctx, flags.out, stdout, flags.lineWidth, false, rio.BlockSet)
}
