package cmd_test

import (
	"testing"

	"github.com/diamonddb/diamond-node/internal/test"
)

func TestRootCmd(t *testing.T) {
	test.Setup(t)

	cli := test.NewTestCLI()

	if err := cli.Run(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cli.DoesntSee("Diamond Node") {
		t.Errorf("expected output to contain the title, got %q", cli.GetOutput())
	}

	if cli.DoesntSee("diamond-node help") {
		t.Error("expected output to contain the help hint")
	}
}

func TestInitCmd(t *testing.T) {
	c := test.Setup(t)

	cli := test.NewTestCLI()

	if err := cli.Run("init"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cli.DoesntSee("Initialized with 0 tables") {
		t.Errorf("unexpected output %q", cli.GetOutput())
	}

	fs := test.NewLocalFileSystem(t, c)

	if _, err := fs.Stat(c.MetaFileName); err != nil {
		t.Errorf("expected the meta file to be created, got %v", err)
	}
}
