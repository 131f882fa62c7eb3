package blob

import (
	"regexp"
	"strings"
	"sync"
	"testing"
)

var objectNamePattern = regexp.MustCompile(`^\d+-\d+\.png$`)

func TestNewObjectName_Shape(t *testing.T) {
	name := NewObjectName(".png")
	if !objectNamePattern.MatchString(name) {
		t.Fatalf("unexpected object name %q", name)
	}
}

func TestNewObjectName_NormalizesExtension(t *testing.T) {
	if !strings.HasSuffix(NewObjectName("PNG"), ".png") {
		t.Fatalf("expected extension to gain a dot and be lowercased")
	}
	if strings.Contains(NewObjectName(""), ".") {
		t.Fatalf("expected no extension when none given")
	}
}

func TestNewObjectName_DistinctUnderConcurrency(t *testing.T) {
	const n = 200

	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := NewObjectName(".jpg")
			mu.Lock()
			seen[name] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d distinct names, got %d", n, len(seen))
	}
}
