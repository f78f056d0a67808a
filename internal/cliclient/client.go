package cliclient

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// Config holds everything RunCLI needs to connect and decide which mode
// to run in.
type Config struct {
	Host     string
	Port     int
	Database int
	Timeout  time.Duration
	Raw      bool
	Eval     string
	File     string
}

func (c Config) addr() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }

// RunCLI connects to the server and dispatches to one-shot eval, script
// file, piped-stdin, or interactive mode, in that priority order.
func RunCLI(cfg Config) error {
	conn, err := net.DialTimeout("tcp", cfg.addr(), cfg.Timeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.addr(), err)
	}
	defer conn.Close()
	r := bufio.NewReader(conn)

	if cfg.Database != 0 {
		if err := runOne(conn, r, fmt.Sprintf("select %d", cfg.Database), cfg.Raw); err != nil {
			return fmt.Errorf("selecting database %d: %w", cfg.Database, err)
		}
	}

	switch {
	case cfg.Eval != "":
		return runOne(conn, r, cfg.Eval, cfg.Raw)
	case cfg.File != "":
		return runFile(conn, r, cfg.File, cfg.Raw)
	default:
		stat, _ := os.Stdin.Stat()
		if stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			return runPipe(conn, r, cfg.Raw)
		}
		return runInteractive(conn, r, cfg)
	}
}

func runOne(conn net.Conn, r *bufio.Reader, line string, raw bool) error {
	reply, err := send(conn, r, line)
	if err != nil {
		return err
	}
	print1(reply, raw)
	return nil
}

func runFile(conn net.Conn, r *bufio.Reader, path string, raw bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reply, err := send(conn, r, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", lineNum, err)
			continue
		}
		if raw {
			fmt.Println(reply)
		} else {
			fmt.Printf("%d) %s\n", lineNum, reply)
		}
	}
	return scanner.Err()
}

func runPipe(conn net.Conn, r *bufio.Reader, raw bool) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply, err := send(conn, r, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		print1(reply, raw)
	}
	return scanner.Err()
}

func runInteractive(conn net.Conn, r *bufio.Reader, cfg Config) error {
	fmt.Println("kvhouse CLI")
	fmt.Printf("Connected to %s\n", cfg.addr())
	if cfg.Database != 0 {
		fmt.Printf("Using database %d\n", cfg.Database)
	}
	fmt.Println("Type 'help' for commands, 'quit' to exit")

	history := NewHistory(100)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return runInteractiveFallback(conn, r, cfg, history)
	}
	defer term.Restore(fd, oldState)

	stdin := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("kvhouse> ")
		input, err := readLineWithHistory(stdin, history)
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "quit", "exit":
			fmt.Print("\r\nbye\r\n")
			return nil
		case "help":
			printHelp()
			continue
		}
		history.Add(input)

		reply, err := send(conn, r, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r\n%v\r\n", err)
			continue
		}
		fmt.Print("\r", interactiveRender(reply, cfg.Raw), "\r\n")
	}
}

// runInteractiveFallback drives the prompt without raw mode (history
// recall via arrow keys is unavailable, e.g. when stdin isn't a TTY the
// terminal driver recognizes).
func runInteractiveFallback(conn net.Conn, r *bufio.Reader, cfg Config, history *History) error {
	stdin := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("kvhouse> ")
		input, err := stdin.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			return nil
		}
		if input == "help" {
			printHelp()
			continue
		}
		history.Add(input)

		reply, err := send(conn, r, input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(interactiveRender(reply, cfg.Raw))
	}
}

// print1 prints a decoded reply. In raw mode the numbering and quoting
// readReply adds for bulk values and arrays is stripped back out.
func print1(reply string, raw bool) {
	if !raw {
		fmt.Println(reply)
		return
	}
	lines := strings.Split(reply, "\n")
	for _, line := range lines {
		line = stripOrdinal(line)
		if unquoted, err := strconv.Unquote(line); err == nil {
			line = unquoted
		}
		fmt.Println(line)
	}
}

// stripOrdinal removes a shapeBulkArray line's "N) " prefix, if present.
func stripOrdinal(line string) string {
	if i := strings.Index(line, ") "); i > 0 && i <= 3 {
		if _, err := strconv.Atoi(line[:i]); err == nil {
			return line[i+2:]
		}
	}
	return line
}

// interactiveRender applies the same raw-mode stripping as print1 but
// returns a single string, for the two prompt loops that print one
// reply per line themselves instead of delegating to print1.
func interactiveRender(reply string, raw bool) string {
	if !raw {
		return reply
	}
	lines := strings.Split(reply, "\n")
	for i, line := range lines {
		line = stripOrdinal(line)
		if unquoted, err := strconv.Unquote(line); err == nil {
			line = unquoted
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// send writes one line and decodes its reply. The CLI never pipelines —
// one command goes out, one reply comes back — so a single bufio.Reader
// threaded through the whole session is enough and never leaves bytes
// stranded in a discarded buffer.
func send(conn net.Conn, r *bufio.Reader, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	if _, err := conn.Write(encodeCommand(fields)); err != nil {
		return "", fmt.Errorf("writing command: %w", err)
	}
	reply, err := readReply(r, fields[0])
	if err != nil {
		return "", fmt.Errorf("reading reply: %w", err)
	}
	return reply, nil
}

func printHelp() {
	fmt.Println(`Commands: SET GET SETNX INCR DECR INCRBY DECRBY DEL EXISTS SELECT
RANDOMKEY KEYS DBSIZE TYPE RENAME RENAMENX MOVE LPUSH RPUSH LPOP RPOP
LLEN LINDEX LSET LRANGE LTRIM SADD SREM SISMEMBER SCARD SINTER SMEMBERS
SAVE BGSAVE LASTSAVE SHUTDOWN PING ECHO
Type 'quit' or 'exit' to leave.`)
}
