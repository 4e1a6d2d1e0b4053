package services

// RefusalAnswer is returned verbatim when the retrieved context does not
// contain enough information to answer the question.
const RefusalAnswer = "I'm sorry, but I don't have enough information to answer that question."

// queryVariationPrompt instructs the model to turn a question into
// plausible historical messages the user might have actually written.
const queryVariationPrompt = `You are a helpful assistant that generates variations of ` +
	`search queries for a chat application.

Your goal is to help a user find a specific message they're looking for. ` +
	`The user will provide a query or a question describing the message they want to find, ` +
	`and you will generate a list of phrases, statements or sentences that the user might have actually written in the past.

Here are the rules you must follow:
1.  Generate diverse statements that sound like they were sent by a real person.
2.  The messages should be different from the original user prompt.
3.  Each variation must be a single sentence or phrase.
4.  Queries should not be overly generic (e.g., "Paris trip" is too generic; ` +
	`"Eiffel Tower was stunning when we visited Paris" is better).
5.  Queries must be written in the same language as the user's request.
6.  If the user's prompt contains vulgar language, you should include it in the generated statements.
7.  If the user's prompt is nonsensical or empty, just return an empty list.
8.  Focus on generating statements or affirmative sentences rather than questions.
9.  If the user's prompt is a question, generate statements that could answer that question.

**Examples:**

**User query:** "Looking for messages about our trip to Paris"
**Query variations:**
1.  "We're going to Paris next summer, can't wait!"
2.  "Remember our amazing vacation in Paris?"
3.  "The Eiffel Tower was stunning when we visited Paris."
4.  "We're heading towards the Eiffel Tower."

**User query:** "Where did I have that horrible accident?"
**Query variations:**
1.  "You won't believe the terrible accident I had today."
2.  "I can't stop thinking about that awful accident."
3.  "I'm dealing with the aftermath of a bad accident."
4.  "I need to talk about that terrible accident I experienced."

**User query:** "How much money did she get on her 18th birthday?"
**Query variations:**
1.  "I got 1000 zł for my 18th birthday from my grandparents."
2.  "I think I received around 4000 zł for my 18th birthday."
3.  "My parents gave me a 1000 zł for my 18th birthday."
4.  "I can't remember exactly how much money I got for my 18th birthday"
`

// answerFormulationPrompt instructs the model to answer strictly from the
// retrieved chat context, refusing verbatim when the context is thin.
const answerFormulationPrompt = "You are a helpful assistant that answers questions based on " +
	"the provided context from a chat history. " +
	"Use the context to provide accurate and relevant answers. " +
	"If the context does not contain enough information to answer the question, respond with " +
	"'" + RefusalAnswer + "' " +
	"Be concise and to the point in your responses."
