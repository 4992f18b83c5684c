package web

//nolint:misspell // CSS properties use American spelling
const loadPage = `<!DOCTYPE html>
<html>
<head>
    <title>starsearch - Loading</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; font-weight: 600; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1 id="status">Connecting to GitHub...</h1>
        <p id="progress"></p>
    </div>
    <script>
        function poll() {
            fetch("/load/status", {credentials: "same-origin"})
                .then(function (r) {
                    if (r.status === 401) { window.location = "/"; return null; }
                    return r.json();
                })
                .then(function (s) {
                    if (!s) { return; }
                    document.getElementById("status").textContent = s.status;
                    if (s.totalCount > 0) {
                        document.getElementById("progress").textContent = s.fetchedCount + " / " + s.totalCount;
                    }
                    if (s.nextUrl) { window.location = s.nextUrl; return; }
                    setTimeout(poll, 500);
                })
                .catch(function () { setTimeout(poll, 2000); });
        }
        poll();
    </script>
</body>
</html>`
