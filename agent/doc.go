// Package agent implements the per-request task executor shared by every
// beachparty agent.
//
// An Executor is built once per server from a language model Backend, an
// optional Retriever and a Profile (instruction, failure messages). Each
// request then runs through the same steps:
//
//  1. Retrieve supplementary context for the query text. Failures degrade to
//     an empty context.
//  2. Build the model request: the profile instruction as system content and
//     the rendered prompt (context plus question) as the user turn.
//  3. Call the backend once (Invoke) or incrementally (Stream).
//  4. Report progress as core.TaskEvent values ending in exactly one terminal
//     event. Backend failures become a terminal event with a readable message;
//     nothing is ever returned as an error.
package agent
