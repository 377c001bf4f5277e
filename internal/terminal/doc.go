// Package terminal owns a PageList and the vt state machine that writes to
// it, and optionally a command running in a pseudo-terminal whose output
// feeds the state machine.
//
// # Concurrency
//
// A Terminal serializes access with one sync.RWMutex. Write, Resize and
// Scroll hold the write lock for a whole batch of bytes; Snapshot, Text,
// Stats and WithRead hold the read lock. Renderers should take a Snapshot
// and draw from it without holding any lock.
//
// # Usage
//
//	term, err := terminal.New(pagelist.DefaultConfig(), terminal.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer term.Close()
//
//	if err := term.Start(ctx, exec.Command("ls", "-l")); err != nil {
//	    return err
//	}
//	<-term.Done()
//	fmt.Println(term.Text())
package terminal
