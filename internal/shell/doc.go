// Package shell provides the interactive administrative shell: a
// JavaScript REPL (goja) whose globals are the application's shell
// context, i.e. its extensions, models and serializers.
//
// Example Usage:
//
//	sh, err := shell.New(a.MakeShellContext(), os.Stdout)
//	if err != nil {
//		return err
//	}
//	return sh.Run(ctx, os.Stdin)
package shell
