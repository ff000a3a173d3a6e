// Package shell runs source commands through an embedded POSIX interpreter
// (mvdan.cc/sh/v3), with coreutils provided by mvdan.cc/sh/moreinterp so the
// same command line works on every platform, Windows included.
//
// Paths in commands should use forward slashes (/) as separators, even on
// Windows.
//
// One-off commands:
//
//	sh := shell.NewShell(shell.Options{})
//	stdout, stderr, err := sh.Exec(ctx, "ls *.log")
//
// Streaming output, as the command source does:
//
//	sh := shell.NewShell(shell.Options{BlockFuncs: shell.DefaultBlockFuncs()})
//	err := sh.Run(ctx, "tail -n 500 app.log", w, io.Discard)
package shell
