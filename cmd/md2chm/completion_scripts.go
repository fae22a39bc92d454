package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// commandNames returns the names of all commands.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords returns "--long" and "-s" forms of every flag.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext, ok := strings.CutPrefix(strings.TrimSpace(g), "*."); ok && ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// flagPattern returns the bash case pattern matching a flag, e.g. "--output|-o".
func flagPattern(f flagDef) string {
	if f.Short == "" {
		return "--" + f.Long
	}
	return "--" + f.Long + "|-" + f.Short
}

// generateBash writes a bash completion script.
func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b bytes.Buffer

	fmt.Fprintln(&b, "# bash completion for md2chm")
	fmt.Fprintln(&b, "_md2chm_completions() {")
	fmt.Fprintln(&b, "    local cur prev cmd")
	fmt.Fprintln(&b, "    cur=\"${COMP_WORDS[COMP_CWORD]}\"")
	fmt.Fprintln(&b, "    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"")
	fmt.Fprintln(&b, "    cmd=\"${COMP_WORDS[1]}\"")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "    if [[ ${COMP_CWORD} -eq 1 ]]; then")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") $(compgen -d -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
	fmt.Fprintln(&b, "        return")
	fmt.Fprintln(&b, "    fi")
	fmt.Fprintln(&b)

	// Flag values
	fmt.Fprintln(&b, "    case \"$prev\" in")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			var reply string
			switch f.Type {
			case flagDir:
				reply = "$(compgen -d -- \"$cur\")"
			case flagFile:
				if exts := globExtensions(f.FileGlob); len(exts) > 0 {
					reply = fmt.Sprintf("$(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\")", strings.Join(exts, "|"))
				} else {
					reply = "$(compgen -f -- \"$cur\")"
				}
			case flagString, flagInt:
				reply = ""
			default:
				continue
			}
			fmt.Fprintf(&b, "        %s) COMPREPLY=( %s ); return ;;\n", flagPattern(f), reply)
		}
	}
	fmt.Fprintln(&b, "    esac")
	fmt.Fprintln(&b)

	// Per-command words
	fmt.Fprintln(&b, "    case \"$cmd\" in")
	for _, c := range cmds {
		words := append(flagWords(c.Flags), c.Args...)
		reply := fmt.Sprintf("$(compgen -W \"%s\" -- \"$cur\")", strings.Join(words, " "))
		if c.TakesDirs {
			reply += " $(compgen -d -- \"$cur\")"
		}
		fmt.Fprintf(&b, "        %s) COMPREPLY=( %s ) ;;\n", c.Name, reply)
	}
	// Implicit build: first word is a directory
	buildFlags := flagWords(cmds[0].Flags)
	fmt.Fprintf(&b, "        *) COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") $(compgen -d -- \"$cur\") ) ;;\n", strings.Join(buildFlags, " "))
	fmt.Fprintln(&b, "    esac")
	fmt.Fprintln(&b, "}")
	fmt.Fprintln(&b, "complete -o filenames -F _md2chm_completions md2chm")

	_, err := w.Write(b.Bytes())
	return err
}

// zshEscaper escapes text inside single-quoted _arguments specs.
var zshEscaper = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

// zshArgument returns the _arguments entry for one flag.
func zshArgument(f flagDef) string {
	desc := "[" + zshEscaper.Replace(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagDir:
		action = ":directory:_files -/"
	case flagFile:
		if exts := globExtensions(f.FileGlob); len(exts) > 0 {
			action = fmt.Sprintf(":file:_files -g \"*.(%s)\"", strings.Join(exts, "|"))
		} else {
			action = ":file:_files"
		}
	default:
		action = ":value: "
	}

	if f.Short == "" {
		return fmt.Sprintf("'--%s%s%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// generateZsh writes a zsh completion script.
func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b bytes.Buffer

	fmt.Fprintln(&b, "#compdef md2chm")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "_md2chm() {")
	fmt.Fprintln(&b, "  local -a commands")
	fmt.Fprintln(&b, "  commands=(")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	fmt.Fprintln(&b, "  )")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "  if (( CURRENT == 2 )); then")
	fmt.Fprintln(&b, "    _describe 'command' commands")
	fmt.Fprintln(&b, "    _files -/")
	fmt.Fprintln(&b, "    return")
	fmt.Fprintln(&b, "  fi")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "  case \"$words[2]\" in")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		fmt.Fprintln(&b, "      _arguments \\")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        %s \\\n", zshArgument(f))
		}
		switch {
		case c.TakesDirs:
			fmt.Fprintln(&b, "        '*:source directory:_files -/'")
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        '1:argument:(%s)'\n", strings.Join(c.Args, " "))
		default:
			fmt.Fprintln(&b, "        '*::'")
		}
		fmt.Fprintln(&b, "      ;;")
	}
	fmt.Fprintln(&b, "    *)")
	fmt.Fprintln(&b, "      _arguments \\")
	for _, f := range cmds[0].Flags {
		fmt.Fprintf(&b, "        %s \\\n", zshArgument(f))
	}
	fmt.Fprintln(&b, "        '*:source directory:_files -/'")
	fmt.Fprintln(&b, "      ;;")
	fmt.Fprintln(&b, "  esac")
	fmt.Fprintln(&b, "}")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "_md2chm \"$@\"")

	_, err := w.Write(b.Bytes())
	return err
}

// fishQuote quotes s for fish single-quoted strings.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// generateFish writes a fish completion script.
func generateFish(w io.Writer) error {
	cmds := getCommands()
	names := strings.Join(commandNames(cmds), " ")
	var b bytes.Buffer

	fmt.Fprintln(&b, "# fish completion for md2chm")
	fmt.Fprintln(&b, "complete -c md2chm -f")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2chm -n '__fish_use_subcommand' -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	fmt.Fprintln(&b, "complete -c md2chm -n '__fish_use_subcommand' -a '(__fish_complete_directories)'")

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", c.Name)
		if c.Name == "build" {
			// Implicit build: any first word that is not a command
			cond = fmt.Sprintf("'__fish_seen_subcommand_from build; or not __fish_seen_subcommand_from %s'", names)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2chm -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -d " + fishQuote(f.Desc)
			switch f.Type {
			case flagBool:
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			case flagFile:
				line += " -r -F"
			default:
				line += " -r"
			}
			fmt.Fprintln(&b, line)
		}
		if c.TakesDirs {
			fmt.Fprintf(&b, "complete -c md2chm -n %s -a '(__fish_complete_directories)'\n", cond)
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c md2chm -n %s -a %s\n", cond, fishQuote(strings.Join(c.Args, " ")))
		}
	}

	_, err := w.Write(b.Bytes())
	return err
}

// psQuote quotes s for PowerShell single-quoted strings.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// generatePowerShell writes a PowerShell completion script.
func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b bytes.Buffer

	fmt.Fprintln(&b, "# PowerShell completion for md2chm")
	fmt.Fprintln(&b, "Register-ArgumentCompleter -Native -CommandName md2chm -ScriptBlock {")
	fmt.Fprintln(&b, "    param($wordToComplete, $commandAst, $cursorPosition)")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "    $commands = [ordered]@{")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	fmt.Fprintln(&b, "    }")
	fmt.Fprintln(&b, "    $words = @{")
	for _, c := range cmds {
		quoted := make([]string, 0, len(c.Flags)*2+len(c.Args))
		for _, word := range append(flagWords(c.Flags), c.Args...) {
			quoted = append(quoted, psQuote(word))
		}
		fmt.Fprintf(&b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(quoted, ", "))
	}
	fmt.Fprintln(&b, "    }")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })")
	fmt.Fprintln(&b, "    if ($elements.Count -lt 2 -or ($elements.Count -eq 2 -and $wordToComplete)) {")
	fmt.Fprintln(&b, "        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {")
	fmt.Fprintln(&b, "            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])")
	fmt.Fprintln(&b, "        }")
	fmt.Fprintln(&b, "        return")
	fmt.Fprintln(&b, "    }")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "    $cmd = $elements[1]")
	fmt.Fprintln(&b, "    if (-not $words.Contains($cmd)) { $cmd = 'build' }")
	fmt.Fprintln(&b, "    $words[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {")
	fmt.Fprintln(&b, "        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)")
	fmt.Fprintln(&b, "    }")
	fmt.Fprintln(&b, "}")

	_, err := w.Write(b.Bytes())
	return err
}
