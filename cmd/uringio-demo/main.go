// Command uringio-demo exercises a ring end to end: a no-op round trip and
// a read from a real file, printing each completion's result.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lattice-io/uringio"
	"github.com/lattice-io/uringio/ops"
)

func main() {
	var (
		file    = flag.String("file", "", "path to a file to read as part of the demo; a temp file is used if empty")
		entries = flag.Uint("entries", 128, "submission queue entry count")
		sqpoll  = flag.Bool("sqpoll", false, "drive the ring with IORING_SETUP_SQPOLL instead of IoPollMode")
	)
	flag.Parse()

	st := newStyles()

	if err := run(*file, uint32(*entries), *sqpoll, st); err != nil {
		fmt.Fprintln(os.Stderr, st.Fail.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func run(path string, entries uint32, sqpoll bool, st styles) error {
	if sqpoll {
		return runSqPoll(entries, st)
	}
	return runIoPoll(path, entries, st)
}

func runIoPoll(path string, entries uint32, st styles) error {
	r, err := uringio.Setup[uringio.IoPollMode, uringio.Sqe64, uringio.Cqe16](entries)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	defer r.Close()

	fmt.Println(st.Label.Render("no-op round trip"))
	if err := nopRoundTrip(r); err != nil {
		return err
	}

	fmt.Println(st.Label.Render("read from file"))
	return readFileDemo(r, path, st)
}

func runSqPoll(entries uint32, st styles) error {
	r, err := uringio.Setup[uringio.SqPollMode, uringio.Sqe64, uringio.Cqe16](entries, uringio.WithSQPollIdle(100))
	if err != nil {
		return fmt.Errorf("setup (sqpoll): %w", err)
	}
	defer r.Close()

	fmt.Println(st.Label.Render("no-op round trip (SQPOLL)"))
	return nopRoundTrip(r)
}

func nopRoundTrip[M uringio.Mode](r *uringio.Ring[M, uringio.Sqe64, uringio.Cqe16]) error {
	const tag = 0x42

	s := r.Submitter()
	if _, err := s.Push(ops.Nop(tag)); err != nil {
		return fmt.Errorf("push nop: %w", err)
	}
	if err := s.Close(); err != nil {
		return err
	}

	completion, err := awaitOne(r, 2*time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("  completion: user_data=0x%x res=%d\n", completion.UserData, completion.Res)
	if completion.UserData != tag {
		return fmt.Errorf("unexpected user_data 0x%x, want 0x%x", completion.UserData, tag)
	}
	return nil
}

func readFileDemo[M uringio.Mode](r *uringio.Ring[M, uringio.Sqe64, uringio.Cqe16], path string, st styles) error {
	if path == "" {
		tmp, err := os.CreateTemp("", "uringio-demo-*")
		if err != nil {
			return err
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.WriteString("hello from uringio\n"); err != nil {
			return err
		}
		tmp.Close()
		path = tmp.Name()
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 1024)
	const tag = 0x43

	s := r.Submitter()
	if _, err := s.Push(ops.Read(ops.PlainFd(int(f.Fd())), buf, 0, tag)); err != nil {
		return fmt.Errorf("push read: %w", err)
	}
	if err := s.Close(); err != nil {
		return err
	}

	completion, err := awaitOne(r, 2*time.Second)
	if err != nil {
		return err
	}
	if completion.Res < 0 {
		return fmt.Errorf("read failed: %w", completion.Err())
	}
	fmt.Printf("  read %d bytes: %s", completion.Res, st.Value.Render(string(buf[:completion.Res])))
	return nil
}

func awaitOne[M uringio.Mode](r *uringio.Ring[M, uringio.Sqe64, uringio.Cqe16], timeout time.Duration) (uringio.Completion, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c := r.Collector()
		if _, err := c.Flush(1); err != nil {
			c.Close()
			return uringio.Completion{}, err
		}
		completion, ok := c.Next()
		if ok {
			return completion, c.Close()
		}
		if err := c.Close(); err != nil {
			return uringio.Completion{}, err
		}
	}
	return uringio.Completion{}, fmt.Errorf("timed out waiting for a completion")
}
