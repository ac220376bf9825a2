package demos

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/octoberswimmer/console"
)

func mapSlice[T, U any](xs []T, f func(T) U) []U {
	out := make([]U, 0, len(xs))
	for _, x := range xs {
		out = append(out, f(x))
	}
	return out
}

func reduce[T, A any](xs []T, acc A, f func(A, T) A) A {
	for _, x := range xs {
		acc = f(acc, x)
	}
	return acc
}

func listOperations(log console.Log) error {
	log.Append("=== slice pipelines ===")
	words := []string{"kiwi", "apple", "fig", "banana", "cherry"}

	lengths := mapSlice(words, func(s string) int { return len(s) })
	log.Appendf("lengths: %v", lengths)

	long := slices.DeleteFunc(slices.Clone(words), func(s string) bool { return len(s) <= 4 })
	log.Appendf("longer than 4: %v", long)

	sorted := slices.Clone(words)
	slices.Sort(sorted)
	log.Appendf("sorted: %v", sorted)

	total := reduce(lengths, 0, func(acc, n int) int { return acc + n })
	log.Appendf("total letters: %d", total)

	upper := mapSlice(sorted, strings.ToUpper)
	log.Appendf("upper: %s", strings.Join(upper, ","))
	return nil
}

// lambda writes through the log's io.Writer, the way a program prints.
func lambda(log console.Log) error {
	w := log.Writer()
	fmt.Fprintln(w, "=== closures ===")

	steps := []struct {
		title string
		run   func(io.Writer)
	}{
		{"assigned to a variable", func(w io.Writer) {
			add := func(a, b int) int { return a + b }
			fmt.Fprintf(w, "add(2, 3) = %d\n", add(2, 3))
		}},
		{"immediately invoked", func(w io.Writer) {
			fmt.Fprintf(w, "func() int { return 7 * 6 }() = %d\n", func() int { return 7 * 6 }())
		}},
		{"capturing state", func(w io.Writer) {
			next := counterFrom(10)
			fmt.Fprintf(w, "next() = %d, %d, %d\n", next(), next(), next())
		}},
		{"returned from a function", func(w io.Writer) {
			times3 := multiplier(3)
			fmt.Fprintf(w, "multiplier(3)(5) = %d\n", times3(5))
		}},
	}

	for i, s := range steps {
		fmt.Fprintf(w, "step %d: %s\n", i+1, s.title)
		s.run(w)
	}
	return nil
}

func counterFrom(n int) func() int {
	return func() int {
		n++
		return n
	}
}

func multiplier(k int) func(int) int {
	return func(n int) int { return n * k }
}
