// Codelens asks Gemini for optimization and review suggestions on Python code.
//
// The code comes from an uploaded file or from a file changed in an open
// GitHub pull request. Suggestions are shown in a small web interface behind
// a login, or printed on the terminal.
//
// Usage:
//
//	codelens serve                     # run the web interface on :8501
//	codelens optimize app.py           # optimization suggestions for a local file
//	codelens pr list --base main       # open PRs and their .py files
//	codelens pr review 7 src/app.py    # review one file of PR #7
//	codelens pr diff 7 src/app.py      # print that file's diff
//	codelens models list               # models available to the API key
package main
