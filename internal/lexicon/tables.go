package lexicon

import "resume-parser-go/internal/types"

// 章节标题短语，声明顺序即同一行命中多个章节时的优先级
var defaultSections = []SectionKeywords{
	{types.SectionEducation, []string{"education", "academic background", "qualifications"}},
	{types.SectionExperience, []string{"experience", "work experience", "professional experience", "employment", "internship"}},
	{types.SectionProjects, []string{"projects", "technical projects", "personal projects", "academic projects"}},
	{types.SectionAchievements, []string{"achievements", "awards", "honors", "certifications", "accomplishments"}},
	{types.SectionInterviewTopics, []string{"interview topics", "interview questions"}},
	{types.SectionSkills, []string{"skills", "technical skills", "tools & technologies"}},
}

// 仅全文正则策略使用的附加标题，章节名即标题本身
var defaultExtraHeaders = []string{
	"summary", "objective", "profile", "about", "interests",
	"activities", "publications", "volunteer", "extracurricular",
}

// 规范技能词表，输出顺序以此为准
var defaultSkills = []string{
	"java", "python", "c++", "javascript", "typescript", "c#", "ruby", "go", "php", "swift", "kotlin",
	"sql", "nosql", "mongodb", "postgresql", "mysql", "oracle", "redis", "firebase", "graphql",
	"html", "css", "sass", "less", "react", "angular", "vue", "node", "express", "spring", "django",
	"flask", "laravel", "asp.net", "jquery", "bootstrap", "tailwind", "redux", "rest", "soap",
	"git", "github", "gitlab", "bitbucket", "docker", "kubernetes", "jenkins", "ci/cd", "aws", "azure", "gcp",
	"agile", "scrum", "jira", "confluence", "kanban", "tdd", "unit testing", "integration testing",
	"data structures", "algorithms", "oop", "functional programming", "microservices", "mvc", "mvvm",
	"design patterns", "authentication", "authorization", "security", "jwt", "oauth", "multithreading",
	"concurrency", "asynchronous", "reactive", "event-driven", "serverless", "machine learning", "ai",
	"data analysis", "big data", "hadoop", "spark", "kafka", "etl", "data visualization", "tableau",
	"power bi", "database design", "orm", "jpa", "hibernate", "entity framework", "webpack", "babel",
	"eslint", "prettier", "linux", "unix", "windows", "macos", "bash", "powershell", "restful api",
	"websockets", "json", "xml", "yaml", "postman", "swagger", "api gateway", "load balancing", "caching",
	"cdn", "seo", "accessibility", "responsive design", "mobile development", "android", "ios", "flutter",
	"react native", "xamarin", "cordova", "object-oriented", "solid principles", "apache", "nginx", "iis",
	"agile methodologies", "code review", "clean code", "refactoring", "performance optimization",
	"memory management", "networking", "http", "https", "tcp/ip",
}

var defaultCoreTopics = []string{
	"Data Structures and Algorithms",
	"Object-Oriented Programming",
	"Problem Solving",
}

// 键为小写后在技能字符串中做子串匹配
var defaultTopicTable = []TopicMapping{
	{"java", []string{"Java Programming", "Spring Framework", "JVM Architecture"}},
	{"python", []string{"Python Programming", "Flask/Django Frameworks", "Python Libraries"}},
	{"c++", []string{"C++ Programming", "Memory Management", "STL"}},
	{"sql", []string{"Database Management System", "SQL Optimization", "Database Design"}},
	{"javascript", []string{"JavaScript", "Frontend Frameworks", "DOM Manipulation"}},
	{"react", []string{"React.js", "State Management", "Component Lifecycle"}},
	{"angular", []string{"Angular", "TypeScript", "RxJS"}},
	{"node.js", []string{"Node.js", "Express.js", "Server-side JavaScript"}},
	{"spring boot", []string{"Spring Boot", "Spring Security", "Spring Data"}},
	{"hibernate", []string{"ORM Frameworks", "Hibernate", "JPA"}},
	{"docker", []string{"Containerization", "Docker", "Kubernetes"}},
	{"aws", []string{"Cloud Computing", "AWS Services", "Cloud Architecture"}},
	{"git", []string{"Version Control", "Git", "CI/CD"}},
	{"microservices", []string{"Microservices Architecture", "API Gateway", "Service Discovery"}},
	{"rest", []string{"RESTful API Design", "API Development", "HTTP Protocol"}},
	{"authentication", []string{"Authentication & Authorization", "OAuth", "JWT"}},
	{"multithreading", []string{"Multithreading", "Concurrency", "Parallel Processing"}},
}

var institutionKeywords = []string{"institute", "university", "college", "school", "academy"}

var companySuffixes = []string{
	"Inc", "LLC", "Ltd", "Corp", "Corporation", "Company", "Technologies",
	"Solutions", "Systems", "Group", "Associates",
}

var titleTokens = []string{
	"Senior", "Junior", "Lead", "Principal", "Chief", "Associate", "Assistant", "Staff",
	"Technical", "Software", "Full Stack", "Backend", "Frontend", "DevOps", "Data", "Cloud",
	"Security", "Network", "Mobile", "Web", "UI/UX", "QA", "Test",
}

var roleNouns = []string{
	"Developer", "Engineer", "Architect", "Manager", "Director", "Specialist", "Analyst",
	"Consultant", "Intern", "Administrator", "Programmer", "Designer", "Scientist", "Researcher",
}

var jobKeywords = []string{
	"developer", "intern", "engineer", "consultant", "analyst", "manager", "lead", "architect",
	"qa", "tester", "administrator", "contributor", "specialist", "designer",
}

var actionKeywords = []string{
	"developed", "built", "designed", "implemented", "led", "maintained", "managed",
	"automated", "tested", "supported", "resolved", "collaborated", "worked on",
}

var achievementKeywords = []string{
	"achievements", "awards", "honors", "certifications", "accomplishments", "recognition",
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var nameRejectTokens = []string{"resume", "curriculum vitae", "cv"}
