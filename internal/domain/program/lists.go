package program

// Curated program lists for the exact-list strategy. Entries are reproduced
// verbatim from the published program names, including irregular spacing.

// CSPrograms lists the computer-science program names.
var CSPrograms = []string{
	"Computer Science & Engineering",
	"Computer Science and Engineering with Specialization in Data Science and Artificial Intelligence",
	"Computer Science",
	"Dual Degree M.Tech. - Ph.D in IT  with specialization in Machine Learning, Robotics and Human Computer Interaction Group",
	"Computer Science and Engineering with Specialization in Artificial Intelligence and Data Science",
	"Computer Science & Information Security",
	"Computer Integrated Manufacturing",
	"Computer Science & Engineering (Artificial Intelligence)",
	"Computer Science and  Engineering (Cyber Security)",
	"Computer Science & Technology",
	"Computer Aided Design Manufacture and Engineering",
	"M.Tech. IT with specialization in Machine Learning, Robotics and Human Computer Interaction Group",
	"Computer Engineering (Cyber Security)",
	"Computer Science & Engineering (Information Security)",
	"Computer Aided Design & Manufacturing",
	"Computer Networking",
	"Computer Engineering",
	"Computer Science & Engineering in (Artificial Intelligence & Data Science)",
	"Computer Science & Engineering (Analytics)",
}

// AIMLPrograms lists the AI, ML and data-science program names.
var AIMLPrograms = []string{
	"Computer Science and Engineering with Specialization in Data Science and Artificial Intelligence",
	"Data Science",
	"M.Tech. IT  with specialization in Software and Data Engineering Group",
	"Artificial Intelligence",
	"Data Science & Engineering",
	"Dual Degree M.Tech. - Ph.D in IT  with specialization in Machine Learning, Robotics and Human Computer Interaction Group",
	"Computer Science and Engineering with Specialization in Artificial Intelligence and Data Science",
	"M.Tech in Artificial Intelligence",
	"M.Tech in Data Science",
	"Machine Learning and Computing",
	"M.Tech in Artificial Intelligence and Machine Learning",
	"Signal Processing and Machine Learning",
	"Data Analytics",
	"Artificial Intelligence & Data Science",
	"Computer Science & Engineering (Artificial Intelligence)",
	"Dual Degree M.Tech. - Ph.D  in IT with specialization in Software and Data Engineering Group",
	"Artificial Intelligence and Machine Learning",
	"M.Tech. IT with specialization in Machine Learning, Robotics and Human Computer Interaction Group",
	"Data Science and Engineering",
	"Computational and Data Science",
	"Industrial Engineering and Data Analytics",
	"Computer Science & Engineering in (Artificial Intelligence & Data Science)",
	"Machine Intelligence and Automation",
}
