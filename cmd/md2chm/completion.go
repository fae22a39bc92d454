package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell names a shell that completion scripts can be generated for.
type Shell string

const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType selects how a flag's value is completed.
type flagType int

const (
	flagString flagType = iota
	flagBool
	flagInt
	flagFile // FileGlob narrows the candidates when set
	flagDir
)

// flagDef is the completion view of one pflag flag.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	FileGlob string // comma separated, e.g. "*.yaml,*.yml"
}

// commandDef is the completion view of one subcommand.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	TakesDirs bool
	Args      []string
}

// shellTarget ties a shell to its generator and install hint.
type shellTarget struct {
	shell    Shell
	desc     string
	install  []string
	generate func(io.Writer) error
}

var shellTargets = []shellTarget{
	{ShellBash, "Bash completion script",
		[]string{"# Add to ~/.bashrc:", `eval "$(md2chm completion bash)"`}, generateBash},
	{ShellZsh, "Zsh completion script",
		[]string{"# Add to ~/.zshrc (before compinit):", `eval "$(md2chm completion zsh)"`}, generateZsh},
	{ShellFish, "Fish completion script",
		[]string{"md2chm completion fish > ~/.config/fish/completions/md2chm.fish"}, generateFish},
	{ShellPowerShell, "PowerShell completion script",
		[]string{"# Add to $PROFILE:", "md2chm completion powershell | Out-String | Invoke-Expression"}, generatePowerShell},
}

// supportedShells lists shell names in the order shown to users.
var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// Value hints that pflag cannot express. Everything else about a flag
// (name, shorthand, usage, value type) is read from the FlagSet.
var (
	dirFlags  = map[string]bool{"output": true, "asset-path": true}
	fileGlobs = map[string]string{"config": "*.yaml,*.yml", "style": "*.css", "compiler": ""}
)

// completionFlags converts a FlagSet into completion definitions.
func completionFlags(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		defs = append(defs, flagDef{
			Long:     f.Name,
			Short:    f.Shorthand,
			Desc:     f.Usage,
			Type:     completionType(f),
			FileGlob: fileGlobs[f.Name],
		})
	})
	return defs
}

func completionType(f *flag.Flag) flagType {
	if _, ok := fileGlobs[f.Name]; ok {
		return flagFile
	}
	if dirFlags[f.Name] {
		return flagDir
	}
	switch t := f.Value.Type(); {
	case t == "bool":
		return flagBool
	case strings.HasPrefix(t, "int"), strings.HasPrefix(t, "uint"):
		return flagInt
	default:
		return flagString
	}
}

// getCommands returns the command registry, with flags taken from the
// same FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:      "build",
			Desc:      "Compile a Markdown directory into a CHM help file",
			Flags:     completionFlags(newBuildFlagSet(&buildFlags{})),
			TakesDirs: true,
		},
		{
			Name:  "doctor",
			Desc:  "Check that a help compiler is available",
			Flags: completionFlags(newDoctorFlagSet(&doctorFlags{})),
		},
		{Name: "completion", Desc: "Generate shell completion script", Args: supportedShells},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: commands},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	for _, s := range shellTargets {
		if s.shell == shell {
			return s.generate(w)
		}
	}
	return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
}

func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprint(w, "Usage: md2chm completion <shell>\n\n")
	fmt.Fprint(w, "Generate shell completion script for the specified shell.\n\n")
	fmt.Fprintln(w, "Supported shells:")
	for _, s := range shellTargets {
		fmt.Fprintf(w, "  %-11s %s\n", s.shell, s.desc)
	}
	fmt.Fprint(w, "\nInstallation:\n")
	for _, s := range shellTargets {
		fmt.Fprintf(w, "\n  %s:\n", s.desc[:strings.IndexByte(s.desc, ' ')])
		for _, line := range s.install {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
