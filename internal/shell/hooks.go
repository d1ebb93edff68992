package shell

// wrapperHook defines the envision() function for bash and zsh. Mutating
// subcommands run in a command substitution and their stdout is eval'd in the
// calling shell only when they succeed.
const wrapperHook = `# envision shell hook, generated by 'envision hook'
envision() {
    case "$1" in
        session|set|unset|clear|profile)
            local _envision_out
            _envision_out="$(command envision "$@")"
            local _envision_rc=$?
            if [ $_envision_rc -eq 0 ] && [ -n "$_envision_out" ]; then
                eval "$_envision_out"
            fi
            return $_envision_rc
            ;;
        *)
            command envision "$@"
            ;;
    esac
}

_envision_banner() {
    [ "${ENVISION_BANNER}" = "off" ] && return
    [ -n "${TMUX}" ] && return
    case "${TERM}" in screen*|dumb) return ;; esac
    [ ! -t 2 ] && return

    if [ -z "${ENVISION_SESSION}" ] && [ -z "${ENVISION_PROFILE}" ]; then
        if [ "${_ENVISION_BANNER_ACTIVE}" = "1" ]; then
            _ENVISION_BANNER_ACTIVE=0
            printf '\e[r\e7\e[1;1H\e[2K\e8' >&2
        fi
        return
    fi

    local _cols="${COLUMNS:-80}"
    local _lines="${LINES:-24}"
    local _parts=""

    if [ -n "${ENVISION_PROFILE}" ]; then
        _parts=" ${ENVISION_PROFILE}"
    fi

    if [ -n "${ENVISION_SESSION_ID}" ]; then
        local _state="clean"
        [ "${ENVISION_DIRTY}" = "1" ] && _state="dirty"
        local _sess="${ENVISION_SESSION_ID} | ${ENVISION_TRACKED:-0} tracked | ${_state}"
        if [ -n "${_parts}" ]; then
            _parts="${_parts} | ${_sess}"
        else
            _parts=" ${_sess}"
        fi
    fi

    [ -z "${_parts}" ] && return
    _parts="${_parts} "

    local _pad=$(( _cols - ${#_parts} ))
    [ $_pad -lt 0 ] && _pad=0

    _ENVISION_BANNER_ACTIVE=1

    # Reserve line 1 with a scroll region and redraw it on every prompt.
    if [ -n "${NO_COLOR}" ]; then
        printf '\e7\e[2;%dr\e[1;1H\e[2K%s%*s\e8' "$_lines" "${_parts}" "$_pad" "" >&2
    else
        printf '\e7\e[2;%dr\e[1;1H\e[2K\e[44;1;37m%s%*s\e[0m\e8' "$_lines" "${_parts}" "$_pad" "" >&2
    fi
}
`

// BashHook is the bash hook: the wrapper plus a PROMPT_COMMAND entry.
const BashHook = wrapperHook + `
if [ -n "${BASH_VERSION}" ]; then
    if [[ "${PROMPT_COMMAND}" != *"_envision_banner"* ]]; then
        PROMPT_COMMAND="_envision_banner${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
    fi
fi
`

// ZshHook is the zsh hook: the wrapper plus a precmd hook.
const ZshHook = wrapperHook + `
if [ -n "${ZSH_VERSION}" ]; then
    autoload -Uz add-zsh-hook
    add-zsh-hook precmd _envision_banner
fi
`

// FishHook is the fish hook. ENVISION_SHELL=fish makes envision print fish
// statements. Command substitution splits the output into lines, so they are
// joined back and sourced as one script.
const FishHook = `# envision shell hook, generated by 'envision hook'
function envision
    switch $argv[1]
        case session set unset clear profile
            set -l _envision_out (env ENVISION_SHELL=fish envision $argv)
            set -l _envision_rc $status
            if test $_envision_rc -eq 0; and set -q _envision_out[1]
                string join \n -- $_envision_out | source
            end
            return $_envision_rc
        case '*'
            command envision $argv
    end
end

function _envision_banner --on-event fish_prompt
    test "$ENVISION_BANNER" = "off"; and return
    test -n "$TMUX"; and return
    test -z "$ENVISION_SESSION"; and test -z "$ENVISION_PROFILE"; and return
    command envision banner >&2
end
`
