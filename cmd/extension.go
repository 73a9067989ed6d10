package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables holding the global flags. They set the flags' defaults and are passed
// to extensions.
const (
	EnvConfig   = "FDIFF_CONFIG"
	EnvCacheDir = "FDIFF_CACHE_DIR"
	EnvVerbose  = "FDIFF_VERBOSE"
)

// extensionEnv returns the environment of an extension: the current one plus the global flags.
func extensionEnv() []string {
	env := os.Environ()
	env = append(env, EnvConfig+"="+*configFile)
	env = append(env, EnvCacheDir+"="+*cacheDir)
	env = append(env, EnvVerbose+"="+strconv.FormatBool(*Verbose))
	return env
}

// RunExtension attempts to find and execute an external fdiff-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "fdiff-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log := logger()
		log.Debug().Err(err).Str("command", externalCmdName).Msg("external command not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv()

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
