//go:build !rp2040 && !rp2350

// tunercli is the host-side counterpart of the tuner service: an interactive
// shell that reads windows of the device's state buffer over a serial link.
//
// The serial device must already be in raw mode at the device's baud rate,
// e.g.  stty -F /dev/ttyUSB0 115200 raw -echo
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/shlex"

	"proxcode-go/drivers/cmod"
	"proxcode-go/tuner"
)

func main() {
	dev := flag.String("dev", "/dev/ttyUSB0", "serial device of the tuner link")
	flag.Parse()

	f, err := os.OpenFile(*dev, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tunercli:", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Println("tunercli: connected to", *dev, "(help for commands)")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("tuner> ")
		if !in.Scan() {
			fmt.Println()
			return
		}
		args, err := shlex.Split(in.Text())
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if err := dispatch(f, args); err == errQuit {
			return
		} else if err != nil {
			fmt.Fprintln(os.Stderr, args[0]+":", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func dispatch(f *os.File, args []string) error {
	switch args[0] {
	case "read":
		off, n, err := window(args[1:])
		if err != nil {
			return err
		}
		buf, err := readWindow(f, off, n)
		if err != nil {
			return err
		}
		hexDump(int(off), buf)
		return nil
	case "state":
		// Whole state buffer in one request.
		buf, err := readWindow(f, 0, cmod.StateWindow)
		if err != nil {
			return err
		}
		hexDump(0, buf)
		return nil
	case "watch":
		off, n, err := window(args[1:])
		if err != nil {
			return err
		}
		ms := 250
		if len(args) > 3 {
			ms, err = strconv.Atoi(args[3])
			if err != nil {
				return err
			}
		}
		return watch(f, off, n, time.Duration(ms)*time.Millisecond)
	case "help":
		fmt.Println("read <off> <len>         one window")
		fmt.Println("state                    full state buffer")
		fmt.Println("watch <off> <len> [ms]   poll a window (ctrl-C to stop)")
		fmt.Println("quit")
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command (try help)")
	}
}

func window(args []string) (uint16, uint8, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("need <off> <len>")
	}
	off, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		return 0, 0, err
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("len must be nonzero")
	}
	return uint16(off), uint8(n), nil
}

func readWindow(f *os.File, off uint16, n uint8) ([]byte, error) {
	req := [tuner.ReqLen]byte{tuner.ReqSync, byte(off >> 8), byte(off), n}
	if _, err := f.Write(req[:]); err != nil {
		return nil, err
	}
	var hdr [2]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil, err
	}
	if hdr[0] != tuner.ReplySync {
		return nil, fmt.Errorf("bad reply sync 0x%02x", hdr[0])
	}
	buf := make([]byte, hdr[1])
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func watch(f *os.File, off uint16, n uint8, every time.Duration) error {
	for {
		buf, err := readWindow(f, off, n)
		if err != nil {
			return err
		}
		hexDump(int(off), buf)
		fmt.Println()
		time.Sleep(every)
	}
}

func hexDump(off int, b []byte) {
	for i := 0; i < len(b); i += 16 {
		end := i + 16
		if end > len(b) {
			end = len(b)
		}
		fmt.Printf("%04x:", off+i)
		for _, v := range b[i:end] {
			fmt.Printf(" %02x", v)
		}
		fmt.Println()
	}
}
