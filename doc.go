/*

Package stream is a Golang library of composable byte-stream adapters. Each
adapter wraps one or more underlying streams and presents a new stream with
different semantics: concatenation, bounded sub-range views, broadcast
writing, tee-on-read mirroring, incremental transcoding, reference-counted
lifetimes and lazy text encoding.

1. Every adapter implements the same Stream interface and can therefore be
composed with any other adapter, in any order, without copying data or
buffering whole contents in memory.

2. Transcoding works with any incremental transform. Only a Transformer that
consumes input chunks and emits output bytes needs to be provided; base64,
ChaCha20 and framed snappy transformers are included as reference, and any
golang.org/x/text transform can be adapted.

3. Adapters add a small constant memory overhead compared to the streams they
wrap. Resource ownership is explicit: an adapter constructed with Own closes
its constituents on Close, one constructed with Borrow leaves them open.

Note: adapters are designed for use by a single logical owner at a time and
provide no internal locking.

*/
package stream
