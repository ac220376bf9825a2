package demos

import (
	"fmt"
	"sort"
	"strings"

	"github.com/octoberswimmer/console"
)

func double(n int) int  { return n * 2 }
func isEven(n int) bool { return n%2 == 0 }

func mapInts(xs []int, f func(int) int) []int {
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		out = append(out, f(x))
	}
	return out
}

func filterInts(xs []int, keep func(int) bool) []int {
	var out []int
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

func functionReference(log console.Log) error {
	log.Append("=== function values ===")
	log.Append("A named function can be passed wherever a func type is expected.")

	numbers := []int{1, 2, 3, 4, 5}

	log.Append("closure: mapInts(numbers, func(n int) int { return double(n) })")
	log.Appendf("result: %v", mapInts(numbers, func(n int) int { return double(n) }))

	log.Append("function value: mapInts(numbers, double)")
	log.Appendf("result: %v", mapInts(numbers, double))

	log.Append("filterInts(numbers, isEven)")
	log.Appendf("even: %v", filterInts(numbers, isEven))

	log.Append("for _, s := range items { log.Append(s) }")
	for _, s := range []string{"  -> item A", "  -> item B", "  -> item C"} {
		log.Append(s)
	}
	return nil
}

type user struct {
	Name string
	Age  int
}

func (u user) GetName() string { return u.Name }

func methodValue(log console.Log) error {
	log.Append("=== method values ===")
	greeting := "Hello Go"

	r := strings.NewReplacer("Go", "gophers")
	replace := r.Replace
	log.Append("replace := replacer.Replace binds the receiver")
	log.Appendf("replace(%q) = %q", greeting, replace(greeting))

	counter := &tally{}
	inc := counter.Inc
	for i := 0; i < 3; i++ {
		inc()
	}
	log.Appendf("inc := counter.Inc; called 3 times -> counter.n = %d", counter.n)
	return nil
}

type tally struct{ n int }

func (t *tally) Inc() { t.n++ }

func methodExpression(log console.Log) error {
	log.Append("=== method expressions ===")
	users := []user{{"Alice", 25}, {"Bob", 30}, {"Carol", 28}}

	name := user.GetName
	log.Append("name := user.GetName takes the receiver as its first argument")

	var names []string
	for _, u := range users {
		names = append(names, name(u))
	}
	log.Appendf("names: %v", names)

	sorted := append([]user(nil), users...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Age < sorted[j].Age })
	var byAge []string
	for _, u := range sorted {
		byAge = append(byAge, fmt.Sprintf("%s(%d)", u.Name, u.Age))
	}
	log.Appendf("sorted by age: %v", byAge)
	return nil
}

type product struct{ Name string }

func newProduct(name string) product { return product{Name: name} }

func createItems[T any](count int, factory func(string) T) []T {
	items := make([]T, 0, count)
	for i := 1; i <= count; i++ {
		items = append(items, factory(fmt.Sprintf("Item%d", i)))
	}
	return items
}

func constructorReference(log console.Log) error {
	log.Append("=== constructors as factories ===")
	names := []string{"phone", "laptop", "tablet"}

	var products []product
	for _, n := range names {
		products = append(products, newProduct(n))
	}
	log.Appendf("newProduct over names: %+v", products)
	log.Appendf("createItems(3, newProduct) = %+v", createItems(3, newProduct))
	return nil
}

type button struct {
	label   string
	onClick func(label string)
}

func (b *button) click() {
	if b.onClick != nil {
		b.onClick(b.label)
	}
}

func clickListener(log console.Log) error {
	log.Append("=== callbacks ===")
	clicks := 0
	handle := func(label string) {
		clicks++
		log.Appendf("clicked %s (%d)", label, clicks)
	}

	buttons := []*button{{label: "ok", onClick: handle}, {label: "cancel", onClick: handle}}
	for _, b := range buttons {
		b.click()
	}
	log.Append("one closure shared by both buttons keeps a single counter")
	return nil
}
