package skills

// SkillOrder fixes the iteration order for display and detection output.
var SkillOrder = []string{"python", "math", "llm", "rag", "n8n", "javascript", "vectordb", "api"}

// defaultSkills builds the full default ledger content. Called once when no
// ledger file exists, and per-skill during migration of pre-milestone files.
func defaultSkills() map[string]*Skill {
	return map[string]*Skill{
		"python": {
			Name: "Python", Category: "programming", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Write and run a basic script", Resource: "python.org/about/gettingstarted"},
				20:  {Title: "Use lists, dicts and loops comfortably", Resource: "Automate the Boring Stuff, ch. 1-5"},
				30:  {Title: "Write functions and handle errors", Resource: "Real Python: defining functions"},
				40:  {Title: "Work with files and virtual environments", Resource: "Real Python: virtualenv primer"},
				50:  {Title: "Analyze a dataset with pandas", Resource: "pandas getting started tutorials"},
				60:  {Title: "Build a small CLI tool", Resource: "docs.python.org: argparse tutorial"},
				70:  {Title: "Write tests with pytest", Resource: "pytest getting started"},
				80:  {Title: "Build a web app with Flask or FastAPI", Resource: "FastAPI tutorial"},
				90:  {Title: "Package and publish a library", Resource: "packaging.python.org"},
				100: {Title: "Contribute to an open source project", Resource: "goodfirstissue.dev"},
			},
		},
		"math": {
			Name: "Math/Statistics", Category: "foundation", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Refresh algebra and notation", Resource: "Khan Academy: algebra basics"},
				20:  {Title: "Understand descriptive statistics", Resource: "Khan Academy: statistics"},
				30:  {Title: "Learn probability fundamentals", Resource: "Khan Academy: probability"},
				40:  {Title: "Work with vectors and matrices", Resource: "3Blue1Brown: Essence of Linear Algebra"},
				50:  {Title: "Understand distributions and sampling", Resource: "Think Stats, ch. 1-5"},
				60:  {Title: "Grasp derivatives and gradients", Resource: "3Blue1Brown: Essence of Calculus"},
				70:  {Title: "Apply hypothesis testing", Resource: "Think Stats, ch. 7-9"},
				80:  {Title: "Understand dot products and cosine similarity", Resource: "Linear Algebra Done Right, ch. 6"},
				90:  {Title: "Follow the math in an ML paper", Resource: "The Illustrated Transformer"},
				100: {Title: "Derive gradient descent from scratch", Resource: "Mathematics for Machine Learning (book)"},
			},
		},
		"llm": {
			Name: "LLM", Category: "ai", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Run a local model with Ollama", Resource: "ollama.com/download"},
				20:  {Title: "Understand tokens and context windows", Resource: "OpenAI tokenizer playground"},
				30:  {Title: "Practice prompt engineering basics", Resource: "promptingguide.ai"},
				40:  {Title: "Compare models on the same task", Resource: "lmarena.ai leaderboard"},
				50:  {Title: "Use system prompts and few-shot examples", Resource: "Anthropic prompt library"},
				60:  {Title: "Call a model from code via API", Resource: "Ollama REST API docs"},
				70:  {Title: "Understand temperature and sampling", Resource: "Hugging Face: how to generate"},
				80:  {Title: "Build a chatbot with memory", Resource: "LangChain chat memory guide"},
				90:  {Title: "Read the attention paper", Resource: "Attention Is All You Need (2017)"},
				100: {Title: "Fine-tune a small model", Resource: "Hugging Face PEFT docs"},
			},
		},
		"rag": {
			Name: "RAG", Category: "ai", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Understand what retrieval adds to generation", Resource: "original RAG paper summary"},
				20:  {Title: "Generate your first embedding", Resource: "Ollama embeddings API"},
				30:  {Title: "Compute similarity between two texts", Resource: "cosine similarity explained"},
				40:  {Title: "Store embeddings in a vector database", Resource: "Chroma getting started"},
				50:  {Title: "Build semantic search over your notes", Resource: "Chroma query docs"},
				60:  {Title: "Chunk documents sensibly", Resource: "Pinecone: chunking strategies"},
				70:  {Title: "Feed retrieved context into a prompt", Resource: "LangChain RAG tutorial"},
				80:  {Title: "Evaluate retrieval quality", Resource: "ragas.io docs"},
				90:  {Title: "Add reranking to a pipeline", Resource: "Cohere rerank guide"},
				100: {Title: "Ship an end-to-end Q&A system", Resource: "full-stack RAG walkthrough"},
			},
		},
		"n8n": {
			Name: "n8n/Workflows", Category: "ai", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Install n8n and run the editor", Resource: "docs.n8n.io/getting-started"},
				20:  {Title: "Build a two-node workflow", Resource: "n8n quickstart"},
				30:  {Title: "Use webhooks as triggers", Resource: "n8n webhook docs"},
				40:  {Title: "Branch with IF and Switch nodes", Resource: "n8n flow logic docs"},
				50:  {Title: "Call an external API from a workflow", Resource: "n8n HTTP request node"},
				60:  {Title: "Transform data with the Code node", Resource: "n8n code node docs"},
				70:  {Title: "Schedule recurring automations", Resource: "n8n cron node docs"},
				80:  {Title: "Add an AI step to a workflow", Resource: "n8n AI agent nodes"},
				90:  {Title: "Handle errors and retries", Resource: "n8n error workflow docs"},
				100: {Title: "Automate a real daily task end to end", Resource: "n8n community workflows"},
			},
		},
		"javascript": {
			Name: "JavaScript/Node.js", Category: "programming", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Run scripts with Node.js", Resource: "nodejs.org/en/learn"},
				20:  {Title: "Understand arrays, objects and functions", Resource: "javascript.info, part 1"},
				30:  {Title: "Use npm and package.json", Resource: "npm docs: getting started"},
				40:  {Title: "Master async/await and promises", Resource: "javascript.info: async"},
				50:  {Title: "Read and write files with fs", Resource: "Node.js fs docs"},
				60:  {Title: "Fetch data from an API", Resource: "MDN: using fetch"},
				70:  {Title: "Build a small HTTP server", Resource: "Express hello world"},
				80:  {Title: "Structure a multi-module project", Resource: "Node.js ESM docs"},
				90:  {Title: "Add a test runner", Resource: "Node.js test runner docs"},
				100: {Title: "Ship a CLI or web app", Resource: "your own project"},
			},
		},
		"vectordb": {
			Name: "Vector Databases", Category: "ai", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Understand what a vector database stores", Resource: "Chroma docs: overview"},
				20:  {Title: "Run Chroma locally", Resource: "Chroma getting started"},
				30:  {Title: "Create a collection and add documents", Resource: "Chroma usage guide"},
				40:  {Title: "Query by similarity", Resource: "Chroma query docs"},
				50:  {Title: "Understand distance metrics", Resource: "Weaviate: distance metrics explained"},
				60:  {Title: "Attach metadata and filter on it", Resource: "Chroma metadata filtering"},
				70:  {Title: "Compare Chroma, Pinecone and Weaviate", Resource: "vector DB comparison posts"},
				80:  {Title: "Tune top-k and score thresholds", Resource: "Pinecone: tuning retrieval"},
				90:  {Title: "Understand ANN index structures", Resource: "HNSW paper walkthrough"},
				100: {Title: "Operate a vector store inside an app", Resource: "this project"},
			},
		},
		"api": {
			Name: "APIs", Category: "programming", MaxLevel: MaxLevel,
			Completed: []int{},
			Milestones: map[int]Milestone{
				10:  {Title: "Call a public API with curl", Resource: "curl basics"},
				20:  {Title: "Understand HTTP verbs and status codes", Resource: "MDN: HTTP overview"},
				30:  {Title: "Read and write JSON payloads", Resource: "MDN: working with JSON"},
				40:  {Title: "Call APIs from code", Resource: "requests / fetch quickstarts"},
				50:  {Title: "Handle errors and timeouts", Resource: "REST error handling patterns"},
				60:  {Title: "Build your own REST endpoint", Resource: "FastAPI / Express tutorial"},
				70:  {Title: "Add authentication", Resource: "OAuth 2.0 simplified"},
				80:  {Title: "Design a resource-oriented API", Resource: "REST API design rulebook"},
				90:  {Title: "Document an API with OpenAPI", Resource: "swagger.io docs"},
				100: {Title: "Version and evolve an API safely", Resource: "API evolution best practices"},
			},
		},
	}
}

// skillDescriptions feeds the detector prompt catalog.
var skillDescriptions = map[string]string{
	"python":     "Python programming, pandas, numpy, scripts, data analysis",
	"math":       "math, statistics, probability, linear algebra, calculus",
	"llm":        "large language models, prompts, ChatGPT, Ollama, transformers",
	"rag":        "retrieval-augmented generation, embeddings, semantic search",
	"n8n":        "n8n, workflow automation, no-code pipelines",
	"javascript": "JavaScript, Node.js, npm, TypeScript, frontend or backend JS",
	"vectordb":   "vector databases, Chroma, Pinecone, Weaviate, similarity search",
	"api":        "REST APIs, HTTP requests, endpoints, webhooks, integrations",
}

// fallbackKeywords drives the deterministic keyword detector. Matching is
// plain lowercase substring containment against the note text.
var fallbackKeywords = map[string][]string{
	"python":     {"python", "pandas", "numpy", "pip ", "django", "flask", "pytest"},
	"math":       {"statistics", "probability", "linear algebra", "calculus", "math"},
	"llm":        {"llm", "language model", "prompt", "ollama", "chatgpt", "transformer"},
	"rag":        {"rag", "retrieval", "semantic search"},
	"n8n":        {"n8n", "workflow", "automation", "zapier"},
	"javascript": {"javascript", "node.js", "nodejs", "npm", "typescript"},
	"vectordb":   {"vector", "chroma", "pinecone", "weaviate", "qdrant"},
	"api":        {"api", "endpoint", "requests", "http", "webhook"},
}
