package completion

var BuildPrompt = buildPrompt
