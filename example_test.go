package regexpu_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/ldklab/regexpu"
)

func ExampleRewritePattern() {
	opts := regexpu.Options{
		NamedGroup: true,
		OnNamedGroup: func(name string, index int) {
			fmt.Printf("%s is group %d\n", name, index)
		},
	}
	rewritten, err := regexpu.RewritePattern(`(?<year>\d{4})-\k<year>`, "u", opts)
	if err != nil {
		log.Fatalf("could not rewrite: %v", err)
	}
	fmt.Println(rewritten)

	// Output:
	// year is group 1
	// ([0-9]{4})\x2D\1
}

func ExampleRewritePattern_ignoreCase() {
	// KELVIN SIGN folds to k, but only Unicode case folding knows that
	rewritten, err := regexpu.RewritePattern("k", "iu", regexpu.Options{})
	if err != nil {
		log.Fatalf("could not rewrite: %v", err)
	}
	fmt.Println(rewritten)

	// Output: [k\u212A]
}

func ExampleRewritePattern_astral() {
	rewritten, err := regexpu.RewritePattern(`\u{1F600}+`, "u", regexpu.Options{})
	if err != nil {
		log.Fatalf("could not rewrite: %v", err)
	}
	fmt.Println(rewritten)

	// Output: (?:\uD83D\uDE00)+
}

func ExampleNamedGroups() {
	groups, err := regexpu.NamedGroups(`(?<a>x)(y)(?<b>z)`, "")
	if err != nil {
		log.Fatalf("could not read groups: %v", err)
	}
	for _, g := range groups {
		fmt.Println(g.Name, g.Index)
	}

	// Output:
	// a 1
	// b 3
}

func ExampleParse() {
	_, err := regexpu.Parse("(a", "", regexpu.ParseFeatures{})
	fmt.Println(errors.Is(err, regexpu.ErrSyntax))

	// Output: true
}
