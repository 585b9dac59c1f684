package mangabaka

// Version is reported in the talker Info and sent as part of the User-Agent.
const Version = "0.1.0"
