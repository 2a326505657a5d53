package orchestrator

import "fmt"

const translationTemplate = `You are a professional translator. Translate the following text from "%s" to "%s". Provide only the translated text, without any additional explanations, introductions, or quotation marks.

Text to translate:
"%s"
`

const spellCheckTemplate = `You are a meticulous spell and grammar checker. Correct any spelling mistakes and grammatical errors in the following text, which is in "%s". Respond ONLY with the corrected text. Do not add any introductions, explanations, or quotation marks. If the text is already perfect, return it as is.

Text to correct:
"%s"
`

func TranslationPrompt(text, sourceLangName, targetLangName string) string {
	return fmt.Sprintf(translationTemplate, sourceLangName, targetLangName, text)
}

func SpellCheckPrompt(text, sourceLangName string) string {
	return fmt.Sprintf(spellCheckTemplate, sourceLangName, text)
}
