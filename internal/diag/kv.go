package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Store is a scratch key/value map shared by every console session.
type Store struct {
	mu    sync.RWMutex
	store map[string]string
}

func NewStore() *Store {
	return &Store{store: make(map[string]string)}
}

func (s *Store) Put(key, val string) {
	s.mu.Lock()
	s.store[key] = val
	s.mu.Unlock()
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.store[key]
	return val, ok
}

// Delete reports whether key existed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.store[key]
	delete(s.store, key)
	return ok
}

// Keys returns sorted keys with the given prefix.
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.store))
	for k := range s.store {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (s *Store) commands() []command {
	return []command{
		{name: "kv", fn: s.summary, help: "Scratch key/value store; enter for operations"},
		{parent: "kv", name: "put", fn: s.put, help: "put <key> <value...>"},
		{parent: "kv", name: "get", fn: s.get, help: "get <key>"},
		{parent: "kv", name: "delete", fn: s.del, help: "delete <key>"},
		{parent: "kv", name: "list", fn: s.list, help: "list [prefix]"},
	}
}

func (s *Store) summary(w io.Writer, _ []string) {
	fmt.Fprintf(w, "keys=%d\n", len(s.Keys("")))
}

func (s *Store) put(w io.Writer, args []string) {
	if len(args) < 2 {
		usage(w, "kv put <key> <value...>")
		return
	}
	s.Put(args[0], strings.Join(args[1:], " "))
	fmt.Fprintf(w, "ok put key=%s\n", args[0])
}

func (s *Store) get(w io.Writer, args []string) {
	if len(args) != 1 {
		usage(w, "kv get <key>")
		return
	}
	val, ok := s.Get(args[0])
	if !ok {
		fmt.Fprintf(w, "missing key=%s\n", args[0])
		return
	}
	fmt.Fprintln(w, val)
}

func (s *Store) del(w io.Writer, args []string) {
	if len(args) != 1 {
		usage(w, "kv delete <key>")
		return
	}
	if !s.Delete(args[0]) {
		fmt.Fprintf(w, "missing key=%s\n", args[0])
		return
	}
	fmt.Fprintf(w, "ok delete key=%s\n", args[0])
}

func (s *Store) list(w io.Writer, args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	for _, k := range s.Keys(prefix) {
		fmt.Fprintln(w, k)
	}
}
