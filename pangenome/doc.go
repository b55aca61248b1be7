// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package pangenome contains the fragment graph that repeat finding and
  pangenome construction operate on.

  A Fragment is an oriented interval of a sequence. Fragments of one
  sequence are linked into a doubly linked chain (Prev/Next) that follows
  their order along the sequence. A Block groups fragments that are copies
  of the same region and owns them; a BlockSet owns blocks.

  Geometric operations (Split, Join, Exclude, DiffTo/Patch) edit fragment
  coordinates and keep the chain ordered. Coordinates may become invalid
  (MinPos > MaxPos); this is a state to be checked with Valid, not an
  error. Contract violations, such as joining fragments that are not
  neighbors, panic.

  Nothing in this package is thread safe except Arena.
*/
package pangenome
