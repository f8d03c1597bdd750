package finder

import (
	"runtime"

	"github.com/calvinalkan/cheatfind/pkg/valuecodec"
)

// predicate reports whether a freshly-read item should survive into the
// new result set.
type predicate func(valuecodec.MemoryItem) bool

func makePredicate(match valuecodec.MemoryItem) predicate {
	wantType := match.Type()
	wantValue := match.Uint64()

	return func(item valuecodec.MemoryItem) bool {
		return item.Type() == wantType && item.Uint64() == wantValue
	}
}

// runWorker is the scan's goroutine body. It owns the read lock on
// f.resultsMu taken by the caller of Search and releases it once the walk
// over domain is done, before invoking listeners.
func (f *Finder) runWorker(domain searchDomain, typ valuecodec.MemoryItemType, match predicate, progress SearchProgressFunc, handshake chan struct{}, resultCh chan *[]SearchResult) {
	close(handshake)

	total := domain.Len()

	var out []SearchResult

	percent := 0
	nextCheckpoint := int64(0)
	cancelled := false

	for i := int64(0); i < total; i++ {
		if i == nextCheckpoint {
			if f.cancelFlag.Load() {
				cancelled = true
				break
			}

			if progress != nil {
				progress(percent)
			}

			runtime.Gosched()

			if f.cancelFlag.Load() {
				cancelled = true
				break
			}

			percent = int(((i+1)*100 + (total - 1)) / total)
			nextCheckpoint = (int64(percent) * total) / 100
		}

		addr, prior, hasPrior := domain.Next()

		item := valuecodec.Read(f.mem, addr, typ)
		if !item.IsValid() || !match(item) {
			continue
		}

		previous := item
		if hasPrior {
			previous = prior
		}

		out = append(out, SearchResult{Address: addr, Current: item, Previous: previous})
	}

	f.resultsMu.RUnlock()

	if progress != nil {
		if cancelled {
			progress(0)
		} else {
			progress(100)
		}
	}

	if cancelled {
		resultCh <- nil
	} else {
		resultCh <- &out
	}

	f.invokeListeners()
}
