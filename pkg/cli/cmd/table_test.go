package cmd_test

import (
	"testing"

	"github.com/diamonddb/diamond-node/internal/test"
)

func createPeopleTable(t *testing.T) {
	t.Helper()

	cli := test.NewTestCLI()

	err := cli.Run("table", "create", "people", "--field", "name:string:15", "--field", "age:number:3")

	if err != nil {
		t.Fatalf("table create returned an error: %v", err)
	}

	if cli.DoesntSee("Table people created") {
		t.Errorf("unexpected output %q", cli.GetOutput())
	}
}

func TestTableCreateAndList(t *testing.T) {
	test.Setup(t)
	createPeopleTable(t)

	cli := test.NewTestCLI()

	if err := cli.Run("table", "list"); err != nil {
		t.Fatalf("table list returned an error: %v", err)
	}

	for _, text := range []string{"people", "name:string:15 age:number:3", "18"} {
		if cli.DoesntSee(text) {
			t.Errorf("expected output to contain %q, got %q", text, cli.GetOutput())
		}
	}
}

func TestTableCreateInvalid(t *testing.T) {
	test.Setup(t)

	cases := [][]string{
		{"table", "create", "people"},
		{"table", "create", "people", "--field", "name:string"},
		{"table", "create", "people", "--field", "name:date:8"},
		{"table", "create", "bad name", "--field", "name:string:8"},
	}

	for _, args := range cases {
		if err := test.NewTestCLI().Run(args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestTableListEmpty(t *testing.T) {
	test.Setup(t)

	if err := test.NewTestCLI().Run("table", "list"); err == nil {
		t.Error("expected an error when no tables exist")
	}
}
