package arbor_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/arbor"
)

// ExampleEngine_Replay demonstrates deriving outline state from a fact log.
func ExampleEngine_Replay() {
	eng := arbor.New()

	factLog := strings.Join([]string{
		`Outline "inbox" was created`,
		`Item "inbox"'s title was changed to "Inbox"`,
		`Item "milk" was created inside item "inbox" at position "0"`,
		`Item "milk"'s title was changed to "Buy milk"`,
		`Item "bread" was created inside item "inbox" at position "1"`,
		`Item "bread"'s title was changed to "Buy bread"`,
		`Item "bread" was moved inside item "inbox" at position "0"`,
	}, "\n")

	if _, err := eng.Replay(context.Background(), strings.NewReader(factLog)); err != nil {
		log.Fatal(err)
	}

	inbox, _ := eng.Get("inbox")
	fmt.Println(inbox.Title)
	for _, id := range inbox.Subitems {
		item, _ := eng.Get(id)
		fmt.Println("-", item.Title)
	}

	// Output:
	// Inbox
	// - Buy bread
	// - Buy milk
}
