// Package allocator owns the banker's-algorithm resource state and is the
// only component allowed to mutate it. Requests are granted tentatively on
// a private copy, checked for safety, and either committed by swapping the
// copy in or discarded, so a rejected request never leaves a trace.
package allocator
